package comment

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sendrec/videovote/internal/auth"
	"github.com/sendrec/videovote/internal/vote/votetest"
)

func newPoster(server *votetest.Server, username string) *Poster {
	creds := auth.Credentials{AccessToken: server.Token(username)}
	return NewPoster(server.URL, &http.Client{Transport: creds.Transport(nil)})
}

func TestPostTopLevelComment(t *testing.T) {
	server := votetest.NewServer()
	defer server.Close()
	server.AddVideo("v1", 0, 0)

	c, err := newPoster(server, "alice").Post(context.Background(), "v1", "first!", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ID == "" || c.Author != "alice" || c.Text != "first!" {
		t.Errorf("unexpected comment %+v", c)
	}

	form := server.Requests()[0].Form
	if _, ok := form["parent_id"]; ok {
		t.Error("expected parent_id to be omitted for a top-level comment")
	}
	if got := form["text"]; len(got) != 1 || got[0] != "first!" {
		t.Errorf("expected text field, got %v", got)
	}
}

func TestPostReply(t *testing.T) {
	server := votetest.NewServer()
	defer server.Close()
	server.AddVideo("v1", 0, 0)
	parentID := server.AddComment("v1", 0, 0)

	if _, err := newPoster(server, "bob").Post(context.Background(), "v1", "agreed", parentID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	form := server.Requests()[0].Form
	if got := form["parent_id"]; len(got) != 1 || got[0] != parentID {
		t.Errorf("expected parent_id %s, got %v", parentID, got)
	}
}

func TestPostWhitespaceTextIsLeftToServer(t *testing.T) {
	server := votetest.NewServer()
	defer server.Close()
	server.AddVideo("v1", 0, 0)

	c, err := newPoster(server, "alice").Post(context.Background(), "v1", "   ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "   " {
		t.Errorf("expected text to be kept as typed, got %q", c.Text)
	}
	if n := len(server.Requests()); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestPostRejected(t *testing.T) {
	server := votetest.NewServer()
	defer server.Close()
	server.AddVideo("v1", 0, 0)

	tests := []struct {
		name     string
		poster   *Poster
		videoID  string
		text     string
		parentID string
		want     string
		requests int
	}{
		{"NotLoggedIn", NewPoster(server.URL, nil), "v1", "hi", "", "Login required", 1},
		{"UnknownVideo", newPoster(server, "alice"), "nope", "hi", "", "Video not found", 1},
		{"UnknownParent", newPoster(server, "alice"), "v1", "hi", "missing", "Parent comment not found", 1},
		{"EmptyText", newPoster(server, "alice"), "v1", "", "", "Comment cannot be empty", 0},
		{"TooLong", newPoster(server, "alice"), "v1", strings.Repeat("x", 5001), "", "comment must be 5000 characters or fewer", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(server.Requests())

			_, err := tt.poster.Post(context.Background(), tt.videoID, tt.text, tt.parentID)

			var commentErr *Error
			if !errors.As(err, &commentErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if commentErr.Message != tt.want {
				t.Errorf("expected message %q, got %q", tt.want, commentErr.Message)
			}
			if sent := len(server.Requests()) - before; sent != tt.requests {
				t.Errorf("expected %d requests, got %d", tt.requests, sent)
			}
		})
	}
}

func TestPostUnexpectedResponse(t *testing.T) {
	server := votetest.NewServer()
	defer server.Close()
	server.Respond("/comment/v1", http.StatusOK, map[string]any{"ok": 1})

	_, err := NewPoster(server.URL, nil).Post(context.Background(), "v1", "hi", "")
	if err == nil {
		t.Fatal("expected error for unexpected response")
	}
	var commentErr *Error
	if errors.As(err, &commentErr) {
		t.Errorf("expected a plain error, got %v", err)
	}
}
