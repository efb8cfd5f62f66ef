package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "videovote"

type Config struct {
	Env            string        `envconfig:"env" default:"development"`
	BaseURL        string        `envconfig:"base_url" default:"http://localhost:5000"`
	VideoID        string        `envconfig:"video_id"`
	SessionCookie  string        `envconfig:"session_cookie"`
	CookieName     string        `envconfig:"cookie_name" default:"session"`
	AccessToken    string        `envconfig:"access_token"`
	RequestTimeout time.Duration `envconfig:"request_timeout" default:"10s"`
	LogLevel       string        `envconfig:"log_level" default:"info"`
}

// Load reads VIDEOVOTE_* variables. Outside release mode the variables in
// dotenvPath are loaded first; values already in the environment win.
func Load(dotenvPath string) (*Config, error) {
	if os.Getenv("VIDEOVOTE_ENV") != "release" && dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("couldn't load env file", "path", dotenvPath, "error", err)
		}
	}

	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return c, nil
}

// Validate checks the settings a vote session cannot run without.
func (c *Config) Validate() error {
	if c.VideoID == "" {
		return errors.New("VIDEOVOTE_VIDEO_ID is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("VIDEOVOTE_BASE_URL must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return errors.New("VIDEOVOTE_REQUEST_TIMEOUT must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid VIDEOVOTE_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
