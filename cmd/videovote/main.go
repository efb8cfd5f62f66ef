package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sendrec/videovote/internal/auth"
	"github.com/sendrec/videovote/internal/comment"
	"github.com/sendrec/videovote/internal/config"
	"github.com/sendrec/videovote/internal/httputil"
	"github.com/sendrec/videovote/internal/vote"
)

func main() {
	videoID := flag.String("video", "", "video to vote on (overrides VIDEOVOTE_VIDEO_ID)")
	likes := flag.Int("likes", 0, "like count the page starts with")
	dislikes := flag.Int("dislikes", 0, "dislike count the page starts with")
	envFile := flag.String("env-file", ".env", "env file loaded outside release mode")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *videoID != "" {
		cfg.VideoID = *videoID
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	creds := auth.Credentials{
		CookieName:    cfg.CookieName,
		SessionCookie: cfg.SessionCookie,
		AccessToken:   cfg.AccessToken,
	}
	warnAboutCredentials(creds, time.Now())

	httpClient := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: creds.Transport(httputil.LoggingTransport(nil)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(ctx, appConfig{
		VideoID:  cfg.VideoID,
		Likes:    *likes,
		Dislikes: *dislikes,
		Caster:   vote.NewClient(cfg.BaseURL, httpClient),
		Poster:   comment.NewPoster(cfg.BaseURL, httpClient),
		Out:      os.Stdout,
		ErrOut:   os.Stderr,
	})

	slog.Info("voting session started", "base_url", cfg.BaseURL, "video_id", cfg.VideoID)
	a.run(ctx, os.Stdin)
	slog.Info("voting session ended")
}

func warnAboutCredentials(creds auth.Credentials, now time.Time) {
	if creds.Empty() {
		slog.Warn("no session cookie or access token configured; votes will be rejected")
		return
	}
	if creds.AccessToken == "" {
		return
	}
	expiresAt, ok, err := auth.TokenExpiry(creds.AccessToken)
	if err != nil {
		slog.Warn("access token is not a JWT; sending it as is", "error", err)
		return
	}
	if ok && !expiresAt.After(now) {
		slog.Warn("access token has expired; votes will be rejected", "expired_at", expiresAt)
	}
}
