package adapter

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/module"
)

// Option configures an Adapter.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	chain     bool
	anchor    string
	modules   *module.Registry
	logger    *slog.Logger
	recorder  core.Recorder
	tracer    trace.Tracer
	events    []chan<- core.Event
	onInvoke  []func(context.Context, *http.Request)
	onSuccess []func(context.Context, any)
	onError   []func(context.Context, error)
}

// WithChain sets whether outcomes go to the continuation instead of the response.
func WithChain(enabled bool) Option {
	return optionFunc(func(c *config) {
		c.chain = enabled
	})
}

// WithAnchor sets the directory relative module identifiers are resolved
// against. Default: DefaultAnchor.
func WithAnchor(dir string) Option {
	return optionFunc(func(c *config) {
		c.anchor = dir
	})
}

// WithModules sets the module registry. Default: module.Default.
func WithModules(r *module.Registry) Option {
	return optionFunc(func(c *config) {
		c.modules = r
	})
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = l
	})
}

// WithRecorder records every invocation. Recording errors are logged and
// never change the response.
func WithRecorder(r core.Recorder) Option {
	return optionFunc(func(c *config) {
		c.recorder = r
	})
}

// WithEvents subscribes a channel to adapter events. Events are dropped when
// the channel is full.
func WithEvents(ch chan<- core.Event) Option {
	return optionFunc(func(c *config) {
		c.events = append(c.events, ch)
	})
}

// OnInvoke registers a hook called when a request arrives, before resolution.
func OnInvoke(fn func(context.Context, *http.Request)) Option {
	return optionFunc(func(c *config) {
		c.onInvoke = append(c.onInvoke, fn)
	})
}

// OnSuccess registers a hook called with the target's result.
func OnSuccess(fn func(context.Context, any)) Option {
	return optionFunc(func(c *config) {
		c.onSuccess = append(c.onSuccess, fn)
	})
}

// OnError registers a hook called with any resolution or invocation error.
func OnError(fn func(context.Context, error)) Option {
	return optionFunc(func(c *config) {
		c.onError = append(c.onError, fn)
	})
}

// WithTracer sets the tracer used for invocation spans. Default: the global
// tracer provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return optionFunc(func(c *config) {
		c.tracer = t
	})
}
