// Package config defines the runtime configuration of the concert API and its loaders.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	HTTPAddr            string        `koanf:"http_addr"`
	MongoURI            string        `koanf:"mongo_uri"`
	MongoDatabase       string        `koanf:"mongo_db"`
	ConcertCollection   string        `koanf:"concert_collection"`
	MongoConnectTimeout time.Duration `koanf:"mongo_connect_timeout"`
	// RequestTimeout bounds every store call made on behalf of one HTTP request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// Timezone is used to interpret schedule strings and YYYYMMDD query dates.
	Timezone       string   `koanf:"timezone"`
	LogLevel       string   `koanf:"log_level"`
	AllowedOrigins []string `koanf:"allowed_origins"`

	DefaultPageLimit int `koanf:"default_page_limit"`
	MaxPageLimit     int `koanf:"max_page_limit"`
	// DateSearchMode is "indexed" or "scan".
	DateSearchMode string `koanf:"date_search_mode"`

	// Admin routes are mounted only when AdminJWTSecret is set.
	AdminJWTSecret   string `koanf:"admin_jwt_secret"`
	AdminJWTIssuer   string `koanf:"admin_jwt_issuer"`
	AdminJWTAudience string `koanf:"admin_jwt_audience"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:            ":3000",
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "concert",
		ConcertCollection:   "concerts",
		MongoConnectTimeout: 10 * time.Second,
		RequestTimeout:      5 * time.Second,
		Timezone:            "Asia/Taipei",
		LogLevel:            "info",
		DefaultPageLimit:    30,
		MaxPageLimit:        100,
		DateSearchMode:      "scan",
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.HTTPAddr) == "":
		return fmt.Errorf("%w: http_addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.MongoURI) == "":
		return fmt.Errorf("%w: mongo_uri must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.MongoDatabase) == "":
		return fmt.Errorf("%w: mongo_db must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ConcertCollection) == "":
		return fmt.Errorf("%w: concert_collection must not be empty", ErrInvalidConfig)
	case c.MongoConnectTimeout <= 0:
		return fmt.Errorf("%w: mongo_connect_timeout must be positive", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	case c.DefaultPageLimit < 1:
		return fmt.Errorf("%w: default_page_limit must be at least 1", ErrInvalidConfig)
	case c.MaxPageLimit < c.DefaultPageLimit:
		return fmt.Errorf("%w: max_page_limit must not be below default_page_limit", ErrInvalidConfig)
	case c.DateSearchMode != "indexed" && c.DateSearchMode != "scan":
		return fmt.Errorf("%w: date_search_mode must be indexed or scan, got %q", ErrInvalidConfig, c.DateSearchMode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// AdminEnabled reports whether the admin route group should be mounted.
func (c Config) AdminEnabled() bool {
	return strings.TrimSpace(c.AdminJWTSecret) != ""
}

// NewLogger returns a JSON slog logger writing to w at the configured level.
// An unknown level falls back to info.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, raw)
	}
	return level, nil
}

// normalise trims list entries and applies the defaults that cannot live in Default.
func (c *Config) normalise() {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.AllowedOrigins = origins
	c.DateSearchMode = strings.ToLower(strings.TrimSpace(c.DateSearchMode))
	c.AdminJWTSecret = strings.TrimSpace(c.AdminJWTSecret)
}
