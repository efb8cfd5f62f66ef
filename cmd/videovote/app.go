package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/sendrec/videovote/internal/comment"
	"github.com/sendrec/videovote/internal/page"
	"github.com/sendrec/videovote/internal/vote"
)

const helpText = `commands:
  like                    vote like
  dislike                 vote dislike
  comment <text>          post a comment
  reply <parentID> <text> reply to a comment
  vote-comment <id> like|dislike
                          vote on a comment
  show                    print the vote controls
  html                    print the vote controls as HTML
  help                    print this help
  quit                    wait for pending votes and exit
`

type appConfig struct {
	VideoID  string
	Likes    int
	Dislikes int
	Caster   vote.Caster
	Poster   *comment.Poster
	Out      io.Writer
	ErrOut   io.Writer
}

type app struct {
	ctx        context.Context
	videoID    string
	page       *page.Page
	caster     vote.Caster
	controller *vote.Controller
	poster     *comment.Poster

	// comments holds one controller per comment voted on, keyed by comment ID.
	comments map[string]*vote.Controller

	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func newApp(ctx context.Context, cfg appConfig) *app {
	a := &app{
		ctx:     ctx,
		videoID: cfg.VideoID,
		page: page.New(
			page.NewButton(vote.LikeButtonID, vote.LikeLabel(cfg.Likes)),
			page.NewButton(vote.DislikeButtonID, vote.DislikeLabel(cfg.Dislikes)),
		),
		caster:   cfg.Caster,
		poster:   cfg.Poster,
		comments: make(map[string]*vote.Controller),
		out:      cfg.Out,
		errOut:   cfg.ErrOut,
	}
	a.controller = vote.NewController(ctx, cfg.Caster, vote.Video(cfg.VideoID), vote.AlertFunc(a.alert))
	a.controller.Attach(a.page)
	return a
}

func (a *app) alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.errOut, "alert: %s\n", message)
}

func (a *app) print(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// run reads commands from in until quit, end of input or ctx is done, then
// waits for votes still in flight.
func (a *app) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	defer a.wait()
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !a.exec(ctx, line) {
				return
			}
		}
	}
}

// exec runs one command line and reports whether to keep reading.
func (a *app) exec(ctx context.Context, line string) bool {
	cmd, args := parseCommand(line)
	switch cmd {
	case "":
	case "like":
		a.click(vote.LikeButtonID)
	case "dislike":
		a.click(vote.DislikeButtonID)
	case "comment":
		a.postComment(ctx, "", strings.Join(args, " "))
	case "reply":
		if len(args) < 2 {
			a.print("usage: reply <parentID> <text>\n")
			break
		}
		a.postComment(ctx, args[0], strings.Join(args[1:], " "))
	case "vote-comment":
		if len(args) != 2 {
			a.print("usage: vote-comment <id> like|dislike\n")
			break
		}
		a.voteComment(args[0], strings.ToLower(args[1]))
	case "show":
		a.print("%s", a.page.String())
	case "html":
		a.mu.Lock()
		err := a.page.WriteHTML(a.out)
		a.mu.Unlock()
		if err != nil {
			a.print("error: %v\n", err)
		}
	case "help":
		a.print("%s", helpText)
	case "quit", "exit":
		return false
	default:
		a.print("unknown command %q, try help\n", cmd)
	}
	return true
}

func (a *app) click(id string) {
	if !a.page.Click(id) {
		a.print("no %s control on this page\n", id)
	}
}

// wait blocks until the video's votes and every comment vote have finished.
func (a *app) wait() {
	a.controller.Wait()
	for _, c := range a.comments {
		c.Wait()
	}
}

// voteComment clicks a comment's like or dislike control, adding the controls
// and binding a controller to them the first time the comment is voted on.
func (a *app) voteComment(commentID, direction string) {
	target := vote.Comment(a.videoID, commentID)
	var id string
	switch direction {
	case "like":
		id = target.LikeID
	case "dislike":
		id = target.DislikeID
	default:
		a.print("usage: vote-comment <id> like|dislike\n")
		return
	}

	if _, ok := a.comments[commentID]; !ok {
		a.page.Add(page.NewButton(target.LikeID, vote.LikeLabel(0)))
		a.page.Add(page.NewButton(target.DislikeID, vote.DislikeLabel(0)))
		c := vote.NewController(a.ctx, a.caster, target, vote.AlertFunc(a.alert))
		c.Attach(a.page)
		a.comments[commentID] = c
	}
	a.click(id)
}

func (a *app) postComment(ctx context.Context, parentID, text string) {
	c, err := a.poster.Post(ctx, a.videoID, text, parentID)
	if err != nil {
		var commentErr *comment.Error
		if errors.As(err, &commentErr) {
			a.alert(commentErr.Message)
			return
		}
		slog.Error("comment failed", "video_id", a.videoID, "error", err)
		a.alert(vote.TransportFailureMessage)
		return
	}
	a.print("comment %s posted by %s\n", c.ID, c.Author)
}

func parseCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
