package validate

import (
	"fmt"
	"unicode/utf8"
)

const MaxCommentBodyLength = 5000

func checkLen(value string, max int, field string) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

// CommentBody returns a user-facing message when s cannot be posted as a
// comment, or "" when it can.
func CommentBody(s string) string {
	if s == "" {
		return "Comment cannot be empty"
	}
	return checkLen(s, MaxCommentBodyLength, "comment")
}
