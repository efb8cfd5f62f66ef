package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VIDEOVOTE_ENV", "VIDEOVOTE_BASE_URL", "VIDEOVOTE_VIDEO_ID", "VIDEOVOTE_SESSION_COOKIE",
		"VIDEOVOTE_COOKIE_NAME", "VIDEOVOTE_ACCESS_TOKEN", "VIDEOVOTE_REQUEST_TIMEOUT", "VIDEOVOTE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.BaseURL != "http://localhost:5000" {
		t.Errorf("expected default base URL, got %q", c.BaseURL)
	}
	if c.CookieName != "session" {
		t.Errorf("expected default cookie name, got %q", c.CookieName)
	}
	if c.RequestTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", c.RequestTimeout)
	}
	if c.LogLevel != "info" {
		t.Errorf("expected info log level, got %q", c.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDEOVOTE_BASE_URL", "https://videos.example.com")
	t.Setenv("VIDEOVOTE_VIDEO_ID", "123")
	t.Setenv("VIDEOVOTE_REQUEST_TIMEOUT", "0")

	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.BaseURL != "https://videos.example.com" || c.VideoID != "123" {
		t.Errorf("unexpected config %+v", c)
	}
	if c.RequestTimeout != 0 {
		t.Errorf("expected timeout disabled, got %v", c.RequestTimeout)
	}
}

func TestLoadDotenvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDEOVOTE_BASE_URL", "https://from-env.example.com")

	path := filepath.Join(t.TempDir(), ".env")
	content := "VIDEOVOTE_VIDEO_ID=from-file\nVIDEOVOTE_BASE_URL=https://from-file.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.VideoID != "from-file" {
		t.Errorf("expected video ID from file, got %q", c.VideoID)
	}
	if c.BaseURL != "https://from-env.example.com" {
		t.Errorf("expected environment to win over file, got %q", c.BaseURL)
	}
}

func TestLoadSkipsDotenvInRelease(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDEOVOTE_ENV", "release")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("VIDEOVOTE_VIDEO_ID=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.VideoID != "" {
		t.Errorf("expected env file to be ignored in release, got %q", c.VideoID)
	}
}

func TestLoadMissingDotenvIsFine(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDEOVOTE_REQUEST_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{BaseURL: "http://localhost:5000", VideoID: "1", LogLevel: "info"}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"MissingVideoID", func(c *Config) { c.VideoID = "" }, true},
		{"BadBaseURL", func(c *Config) { c.BaseURL = "localhost:5000" }, true},
		{"NegativeTimeout", func(c *Config) { c.RequestTimeout = -time.Second }, true},
		{"BadLogLevel", func(c *Config) { c.LogLevel = "chatty" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	c := Config{LogLevel: "debug"}
	level, err := c.Level()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
}
