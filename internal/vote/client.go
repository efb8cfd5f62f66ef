package vote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendrec/videovote/internal/httputil"
)

var (
	// ErrTransport marks a vote request that never produced a response.
	ErrTransport = errors.New("vote request failed")
	// ErrMalformedResponse marks a response body that is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed vote response")
)

// APIError is a failure reported by the server: a non-2xx status with an
// error message in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vote rejected with status %d: %s", e.StatusCode, e.Message)
}

// Caster sends a vote to path and returns the server's answer.
type Caster interface {
	Cast(ctx context.Context, path string) (*Result, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a vote client for the site at baseURL. httpClient
// carries credentials and timeouts; nil uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type voteResponse struct {
	Likes            *int    `json:"likes"`
	Dislikes         *int    `json:"dislikes"`
	FollowingLike    *bool   `json:"following_like"`
	FollowingDislike *bool   `json:"following_dislike"`
	Error            *string `json:"error"`
}

// Cast POSTs to path with an empty body.
func (c *Client) Cast(ctx context.Context, path string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create vote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body voteResponse
	if err := httputil.DecodeJSON(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		message := http.StatusText(resp.StatusCode)
		if body.Error != nil {
			message = *body.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if body.Likes == nil || body.Dislikes == nil || body.FollowingLike == nil || body.FollowingDislike == nil {
		return nil, fmt.Errorf("%w: missing likes, dislikes, following_like or following_dislike", ErrMalformedResponse)
	}

	return &Result{
		Tally: Tally{Likes: *body.Likes, Dislikes: *body.Dislikes},
		State: State{FollowingLike: *body.FollowingLike, FollowingDislike: *body.FollowingDislike},
	}, nil
}
