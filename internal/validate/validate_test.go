package validate

import (
	"strings"
	"testing"
)

func TestCommentBody(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Valid", "great video", ""},
		{"Empty", "", "Comment cannot be empty"},
		{"Whitespace", "  \n\t", ""},
		{"AtLimit", strings.Repeat("a", MaxCommentBodyLength), ""},
		{"OverLimit", strings.Repeat("a", MaxCommentBodyLength+1), "comment must be 5000 characters or fewer"},
		{"MultibyteAtLimit", strings.Repeat("👍", MaxCommentBodyLength), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommentBody(tt.input); got != tt.want {
				t.Errorf("CommentBody() = %q, want %q", got, tt.want)
			}
		})
	}
}
