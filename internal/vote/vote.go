package vote

import (
	"fmt"
	"net/url"
)

type Direction int

const (
	Like Direction = iota
	Dislike
)

func (d Direction) String() string {
	if d == Dislike {
		return "dislike"
	}
	return "like"
}

// Tally is the server's like/dislike count for a video or comment.
type Tally struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// State reports which direction the current user's vote matches. The server
// is expected to set at most one; nothing here enforces it.
type State struct {
	FollowingLike    bool `json:"following_like"`
	FollowingDislike bool `json:"following_dislike"`
}

// Result is one authoritative vote response. It replaces whatever was
// rendered before; it is never merged.
type Result struct {
	Tally
	State
}

const (
	LikeLabelFormat    = "👍 Like (%d)"
	DislikeLabelFormat = "👎 Dislike (%d)"

	ActiveLikeClass    = "active-like"
	ActiveDislikeClass = "active-dislike"

	LikeButtonID    = "likeBtn"
	DislikeButtonID = "dislikeBtn"
)

func LikeLabel(likes int) string       { return fmt.Sprintf(LikeLabelFormat, likes) }
func DislikeLabel(dislikes int) string { return fmt.Sprintf(DislikeLabelFormat, dislikes) }

// Target is the subject being voted on: the endpoints for both directions
// and the IDs of the two controls bound to them.
type Target struct {
	LikePath    string
	DislikePath string
	LikeID      string
	DislikeID   string
}

// Video targets the vote endpoints of a single video page. videoID is used
// as given.
func Video(videoID string) Target {
	id := url.PathEscape(videoID)
	return Target{
		LikePath:    "/like/" + id,
		DislikePath: "/dislike/" + id,
		LikeID:      LikeButtonID,
		DislikeID:   DislikeButtonID,
	}
}

// Comment targets the vote endpoints of one comment under a video.
func Comment(videoID, commentID string) Target {
	v, c := url.PathEscape(videoID), url.PathEscape(commentID)
	return Target{
		LikePath:    "/comment_like/" + v + "/" + c,
		DislikePath: "/comment_dislike/" + v + "/" + c,
		LikeID:      "commentLikeBtn-" + commentID,
		DislikeID:   "commentDislikeBtn-" + commentID,
	}
}

func (t Target) Path(d Direction) string {
	if d == Dislike {
		return t.DislikePath
	}
	return t.LikePath
}
