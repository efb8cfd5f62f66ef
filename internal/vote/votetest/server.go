// Package votetest provides a fake video site for testing vote clients. It
// answers the like, dislike and comment endpoints with toggle semantics and
// lets tests hold responses to control the order they resolve in.
package votetest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sendrec/videovote/internal/auth"
	"github.com/sendrec/videovote/internal/httputil"
)

const secret = "votetest-secret"

// Request is one request the server received.
type Request struct {
	Method        string
	Path          string
	ContentLength int64
	Form          map[string][]string
}

type voters struct {
	likedBy    []string
	dislikedBy []string
}

type comment struct {
	ID       string    `json:"id"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Time     string    `json:"timestamp"`
	Likes    int       `json:"likes"`
	Dislikes int       `json:"dislikes"`
	Replies  []comment `json:"replies"`
}

type video struct {
	votes    voters
	comments map[string]*voters
}

type cannedResponse struct {
	status int
	body   any
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	videos   map[string]*video
	sessions map[string]string
	requests []Request
	holds    map[string]*Hold
	canned   map[string]cannedResponse
}

// NewServer starts a fake site. Close it when done.
func NewServer() *Server {
	s := &Server{
		videos:   make(map[string]*video),
		sessions: make(map[string]string),
		holds:    make(map[string]*Hold),
		canned:   make(map[string]cannedResponse),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/like/{videoID}", s.voteVideo(true))
	r.Post("/dislike/{videoID}", s.voteVideo(false))
	r.Post("/comment_like/{videoID}/{commentID}", s.voteComment(true))
	r.Post("/comment_dislike/{videoID}/{commentID}", s.voteComment(false))
	r.Post("/comment/{videoID}", s.postComment)

	s.Server = httptest.NewServer(r)
	return s
}

// AddVideo registers a video whose tally starts at likes and dislikes.
func (s *Server) AddVideo(id string, likes, dislikes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[id] = &video{
		votes:    seedVoters(likes, dislikes),
		comments: make(map[string]*voters),
	}
}

// AddComment registers a comment on an existing video and returns its ID.
// It panics if the video was never added.
func (s *Server) AddComment(videoID string, likes, dislikes int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[videoID]
	if !ok {
		panic("votetest: AddComment on unknown video " + videoID)
	}
	id := uuid.NewString()
	v.comments[id] = ptr(seedVoters(likes, dislikes))
	return id
}

// Token returns a bearer token that authenticates as username.
func (s *Server) Token(username string) string {
	token, err := auth.GenerateAccessToken(secret, username, time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

// Session returns a session cookie value that authenticates as username.
func (s *Server) Session(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = username
	return id
}

// Respond makes every later request to path answer with status and body
// instead of the toggle logic.
func (s *Server) Respond(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[path] = cannedResponse{status: status, body: body}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Hold delays the next request to path until Release is called.
type Hold struct {
	arrived  chan struct{}
	released chan struct{}
	once     sync.Once
}

// Arrived is closed once the held request reached the server.
func (h *Hold) Arrived() <-chan struct{} { return h.arrived }

func (h *Hold) Release() { h.once.Do(func() { close(h.released) }) }

func (s *Server) Hold(path string) *Hold {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &Hold{arrived: make(chan struct{}), released: make(chan struct{})}
	s.holds[path] = h
	return h
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path, ContentLength: r.ContentLength}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				req.Form = r.MultipartForm.Value
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		hold := s.holds[r.URL.Path]
		delete(s.holds, r.URL.Path)
		canned, hasCanned := s.canned[r.URL.Path]
		s.mu.Unlock()

		if hold != nil {
			close(hold.arrived)
			select {
			case <-hold.released:
			case <-r.Context().Done():
				return
			}
		}

		if hasCanned {
			httputil.WriteJSON(w, canned.status, canned.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) user(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err == nil {
			return claims.Username, true
		}
	}
	if cookie, err := r.Cookie(auth.DefaultCookieName); err == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		username, ok := s.sessions[cookie.Value]
		return username, ok
	}
	return "", false
}

func (s *Server) voteVideo(like bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.user(r)
		if !ok {
			httputil.WriteError(w, http.StatusForbidden, "Not logged in")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		v, ok := s.videos[chi.URLParam(r, "videoID")]
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "Video not found")
			return
		}
		v.votes.toggle(username, like)
		httputil.WriteJSON(w, http.StatusOK, v.votes.response(username))
	}
}

func (s *Server) voteComment(like bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.user(r)
		if !ok {
			httputil.WriteError(w, http.StatusForbidden, "Login required")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		v, ok := s.videos[chi.URLParam(r, "videoID")]
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "Video not found")
			return
		}
		c, ok := v.comments[chi.URLParam(r, "commentID")]
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "Comment not found")
			return
		}
		c.toggle(username, like)
		httputil.WriteJSON(w, http.StatusOK, c.response(username))
	}
}

func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	username, ok := s.user(r)
	if !ok {
		httputil.WriteError(w, http.StatusForbidden, "Login required")
		return
	}

	text := r.FormValue("text")
	parentID := r.FormValue("parent_id")
	if text == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[chi.URLParam(r, "videoID")]
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Video not found")
		return
	}
	if parentID != "" {
		if _, ok := v.comments[parentID]; !ok {
			httputil.WriteError(w, http.StatusNotFound, "Parent comment not found")
			return
		}
	}

	c := comment{
		ID:      uuid.NewString(),
		Author:  username,
		Text:    text,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Replies: []comment{},
	}
	v.comments[c.ID] = &voters{}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "comment": c})
}

func seedVoters(likes, dislikes int) voters {
	var v voters
	for i := 0; i < likes; i++ {
		v.likedBy = append(v.likedBy, "seed-like-"+uuid.NewString())
	}
	for i := 0; i < dislikes; i++ {
		v.dislikedBy = append(v.dislikedBy, "seed-dislike-"+uuid.NewString())
	}
	return v
}

// toggle applies one vote: repeating a vote withdraws it, voting the other
// way moves the user's vote.
func (v *voters) toggle(username string, like bool) {
	same, other := &v.likedBy, &v.dislikedBy
	if !like {
		same, other = other, same
	}
	if contains(*same, username) {
		*same = remove(*same, username)
		return
	}
	*same = append(*same, username)
	*other = remove(*other, username)
}

func (v *voters) response(username string) map[string]any {
	return map[string]any{
		"likes":             len(v.likedBy),
		"dislikes":          len(v.dislikedBy),
		"following_like":    contains(v.likedBy, username),
		"following_dislike": contains(v.dislikedBy, username),
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
