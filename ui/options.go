package ui

import (
	"log/slog"
	"net/http"
)

// Option configures the invocations handler.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	middleware func(http.Handler) http.Handler
	logger     *slog.Logger
	maxLimit   int
}

// WithMiddleware wraps the handler with middleware (auth, logging, etc.).
func WithMiddleware(mw func(http.Handler) http.Handler) Option {
	return optionFunc(func(c *config) {
		c.middleware = mw
	})
}

// WithLogger sets the logger used by the handler's adapters.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = l
	})
}

// WithMaxLimit caps the limit query parameter. Default: 500.
func WithMaxLimit(n int) Option {
	return optionFunc(func(c *config) {
		c.maxLimit = n
	})
}
