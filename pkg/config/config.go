package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix is the environment prefix used by Load when prefix is empty.
const DefaultPrefix = "THINWARE"

// Config holds server settings.
type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080" validate:"required"`
	Anchor          string        `envconfig:"ANCHOR" default:"." validate:"required"`
	Chain           bool          `envconfig:"CHAIN" default:"false"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	RecordDSN       string        `envconfig:"RECORD_DSN"`
	Metrics         bool          `envconfig:"METRICS" default:"true"`
	TraceExporter   string        `envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gte=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gte=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gte=0"`
}

var validate = validator.New()

// Load reads the configuration from environment variables named
// <prefix>_<KEY>, fills defaults, makes Anchor absolute and validates.
func Load(prefix string) (*Config, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	anchor, err := filepath.Abs(cfg.Anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve anchor %q: %w", cfg.Anchor, err)
	}
	cfg.Anchor = anchor
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s: failed %q validation (value %v)", fe.Field(), fe.Tag(), fe.Value())
	}
	return err
}

// Recording reports whether invocations should be recorded.
func (c *Config) Recording() bool {
	return c.RecordDSN != ""
}

// Logger builds a logger writing to stderr.
func (c *Config) Logger() *slog.Logger {
	return c.LoggerTo(os.Stderr)
}

// LoggerTo builds a logger writing to w with the configured level and format.
func (c *Config) LoggerTo(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
}
