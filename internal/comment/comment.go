package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sendrec/videovote/internal/httputil"
	"github.com/sendrec/videovote/internal/validate"
)

type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Replies   []Comment `json:"replies"`
}

// Error is a comment that was refused, either before sending or by the
// server. Message is meant for the user.
type Error struct {
	Message string
}

func (e *Error) Error() string { return "comment rejected: " + e.Message }

type Poster struct {
	baseURL    string
	httpClient *http.Client
}

func NewPoster(baseURL string, httpClient *http.Client) *Poster {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Poster{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Post adds a comment to a video. An empty parentID posts a top-level
// comment; otherwise the comment is a reply to parentID.
func (p *Poster) Post(ctx context.Context, videoID, text, parentID string) (*Comment, error) {
	if msg := validate.CommentBody(text); msg != "" {
		return nil, &Error{Message: msg}
	}

	var parent *string
	if parentID != "" {
		parent = &parentID
	}

	body, err := httputil.PostForm(ctx, p.httpClient, p.baseURL+"/comment/"+url.PathEscape(videoID), map[string]any{
		"text":      text,
		"parent_id": parent,
	})
	if err != nil {
		return nil, fmt.Errorf("post comment: %w", err)
	}

	if msg, ok := body["error"].(string); ok {
		return nil, &Error{Message: msg}
	}
	if success, _ := body["success"].(bool); !success {
		return nil, fmt.Errorf("post comment: unexpected response %v", body)
	}

	raw, err := json.Marshal(body["comment"])
	if err != nil {
		return nil, fmt.Errorf("marshal comment: %w", err)
	}
	var c Comment
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("unmarshal comment: %w", err)
	}
	return &c, nil
}
