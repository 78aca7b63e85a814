package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"squirrelstash/internal/app"
)

// Server is the configuration of the standalone HTTP server.
type Server struct {
	HTTPAddr        string
	DatabaseDSN     string
	LogLevel        slog.Level
	RulesetPath     string
	TokenSecret     string
	TokenIssuer     string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the server configuration from the environment.
func Load() (Server, error) {
	c := Server{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		RulesetPath:     os.Getenv("RULESET_PATH"),
		TokenSecret:     os.Getenv("ACTOR_TOKEN_SECRET"),
		TokenIssuer:     envOr("ACTOR_TOKEN_ISSUER", app.ActorTokenIssuer),
		TokenTTL:        app.DefaultActorTokenTTL,
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("ACTOR_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Server{}, fmt.Errorf("invalid ACTOR_TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = d
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Server{}, err
	}
	c.LogLevel = level

	if c.TokenSecret == "" {
		return Server{}, fmt.Errorf("ACTOR_TOKEN_SECRET is required")
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
