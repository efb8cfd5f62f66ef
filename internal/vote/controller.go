package vote

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sendrec/videovote/internal/page"
)

// TransportFailureMessage is shown when a vote never got a usable answer.
const TransportFailureMessage = "Could not reach the server. Please try again."

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// Controller binds a like and a dislike control to the vote endpoints of one
// target and re-renders both from every successful response.
//
// Each click runs on its own goroutine. Responses are rendered in the order
// they resolve, so with two votes in flight the one answered last wins, not
// the one clicked last. Nothing is cancelled or debounced.
type Controller struct {
	ctx     context.Context
	caster  Caster
	target  Target
	alerter Alerter

	renderMu sync.Mutex
	inflight sync.WaitGroup
}

// NewController creates a controller for target. ctx bounds every request
// the controller sends; cancelling it aborts votes still in flight.
func NewController(ctx context.Context, caster Caster, target Target, alerter Alerter) *Controller {
	return &Controller{
		ctx:     ctx,
		caster:  caster,
		target:  target,
		alerter: alerter,
	}
}

// Attach registers a click listener on each of the target's controls found
// in doc. A control missing from doc is skipped without error. Calling
// Attach twice registers the listeners twice.
func (c *Controller) Attach(doc page.Document) {
	like, hasLike := doc.ElementByID(c.target.LikeID)
	dislike, hasDislike := doc.ElementByID(c.target.DislikeID)
	if !hasLike {
		like = nil
	}
	if !hasDislike {
		dislike = nil
	}

	if like != nil {
		like.OnClick(func() { c.activate(Like, like, dislike) })
	}
	if dislike != nil {
		dislike.OnClick(func() { c.activate(Dislike, like, dislike) })
	}
}

// Wait blocks until every vote started so far has finished.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) activate(d Direction, like, dislike page.Element) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.handle(d, like, dislike)
	}()
}

func (c *Controller) handle(d Direction, like, dislike page.Element) {
	path := c.target.Path(d)

	result, err := c.caster.Cast(c.ctx, path)
	if err != nil {
		c.fail(d, path, err)
		return
	}

	c.renderMu.Lock()
	Render(like, dislike, *result)
	c.renderMu.Unlock()

	slog.Debug("vote rendered",
		"direction", d.String(),
		"path", path,
		"likes", result.Likes,
		"dislikes", result.Dislikes,
		"following_like", result.FollowingLike,
		"following_dislike", result.FollowingDislike,
	)
}

func (c *Controller) fail(d Direction, path string, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		slog.Info("vote rejected", "direction", d.String(), "path", path, "status", apiErr.StatusCode, "error", apiErr.Message)
		c.alerter.Alert(apiErr.Message)
	case errors.Is(err, context.Canceled):
		slog.Info("vote cancelled", "direction", d.String(), "path", path)
	default:
		slog.Error("vote failed", "direction", d.String(), "path", path, "error", err)
		c.alerter.Alert(TransportFailureMessage)
	}
}

// Render overwrites both controls from r: labels from the tally, highlight
// classes set exactly to the following flags. A nil control is skipped.
func Render(like, dislike page.Element, r Result) {
	if like != nil {
		like.SetText(LikeLabel(r.Likes))
		like.SetClass(ActiveLikeClass, r.FollowingLike)
	}
	if dislike != nil {
		dislike.SetText(DislikeLabel(r.Dislikes))
		dislike.SetClass(ActiveDislikeClass, r.FollowingDislike)
	}
}
