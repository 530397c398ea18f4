// Package thinware turns plain Go functions into net/http handlers.
//
// This is the main package users should import. It re-exports the public
// types from the internal pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	func getUser(ctx context.Context, id string) (User, error) { ... }
//
//	r := chi.NewRouter()
//	r.Method("GET", "/users/{id}", thinware.New(
//	    thinware.Func(getUser),
//	    thinware.Resolver(func(r *http.Request) (any, error) {
//	        return chi.URLParam(r, "id"), nil
//	    }),
//	))
//
// Chained usage, where the outcome goes to the next handler instead of the
// response:
//
//	a := thinware.Next(thinware.Func(getUser), thinware.Resolver(userID))
//	r.Method("GET", "/users/{id}", a.Middleware(render))
package thinware

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/jdziat/thinware/pkg/adapter"
	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/module"
	"github.com/jdziat/thinware/pkg/security"
	"github.com/jdziat/thinware/pkg/storage"
)

// Type aliases
type (
	// Adapter invokes a target for every request it serves.
	Adapter = adapter.Adapter

	// Option configures an Adapter.
	Option = adapter.Option

	// Target is the operation an adapter invokes.
	Target = core.Target

	// Args describes how an adapter obtains the target's arguments.
	Args = core.Args

	// Continuation receives the outcome in chain mode.
	Continuation = core.Continuation

	// StatusError attaches an HTTP status code to an error.
	StatusError = core.StatusError

	// Event is the interface for all adapter events.
	Event = core.Event

	// InvocationStarted is emitted before a target is resolved.
	InvocationStarted = core.InvocationStarted

	// InvocationSucceeded is emitted after a target returns without error.
	InvocationSucceeded = core.InvocationSucceeded

	// InvocationFailed is emitted when resolution or invocation fails.
	InvocationFailed = core.InvocationFailed

	// Invocation is the record of one handled request.
	Invocation = core.Invocation

	// Recorder persists invocation records.
	Recorder = core.Recorder

	// Registry maps module identifiers to loaders.
	Registry = module.Registry

	// Loader produces a module's value.
	Loader = module.Loader

	// Deferred is a module value that must be awaited before use.
	Deferred = module.Deferred

	// GormRecorder implements Recorder using GORM.
	GormRecorder = storage.GormRecorder
)

// Outcome constants
const (
	OutcomeSucceeded = core.OutcomeSucceeded
	OutcomeFailed    = core.OutcomeFailed
)

// Security limits
const (
	MaxModuleIDLength     = security.MaxModuleIDLength
	MaxArguments          = security.MaxArguments
	MaxErrorMessageLength = security.MaxErrorMessageLength
)

// Error variables
var (
	ErrNilTarget        = core.ErrNilTarget
	ErrNotCallable      = core.ErrNotCallable
	ErrInvalidModuleID  = core.ErrInvalidModuleID
	ErrModuleIDTooLong  = core.ErrModuleIDTooLong
	ErrModuleNotFound   = core.ErrModuleNotFound
	ErrArgumentMismatch = core.ErrArgumentMismatch
	ErrTooManyArguments = core.ErrTooManyArguments
	ErrTargetPanicked   = core.ErrTargetPanicked
	ErrModulePanicked   = core.ErrModulePanicked
)

// New creates an Adapter that writes outcomes to the response, or forwards
// them to a continuation when WithChain(true) is given.
func New(target Target, args Args, opts ...Option) *Adapter {
	return adapter.New(target, args, opts...)
}

// Next creates an Adapter in chain mode.
func Next(target Target, args Args, opts ...Option) *Adapter {
	return adapter.Next(target, args, opts...)
}

// NewBasic creates an Adapter that always writes to the response and answers
// every failure with 500.
func NewBasic(target Target, args Args, opts ...Option) *Adapter {
	return adapter.NewBasic(target, args, opts...)
}

// Func wraps a function as a Target.
func Func(fn any) Target {
	return core.Func{Fn: fn}
}

// Module names a module that is loaded when a request arrives. Identifiers
// starting with "." are resolved against the adapter's anchor.
func Module(id string) Target {
	return core.ModulePath{ID: id}
}

// Static passes values as the positional arguments of every invocation.
func Static(values ...any) Args {
	return core.StaticArgs{Values: values}
}

// Value passes a single value. A []any is spread into positional arguments
// and a falsy value means no arguments.
func Value(v any) Args {
	return core.ValueArg{Value: v}
}

// Resolver derives arguments from each request.
func Resolver(fn func(*http.Request) (any, error)) Args {
	return core.ArgsResolver{Fn: fn}
}

// WithChain sets whether outcomes go to the continuation instead of the response.
func WithChain(enabled bool) Option {
	return adapter.WithChain(enabled)
}

// WithAnchor sets the directory relative module identifiers resolve against.
func WithAnchor(dir string) Option {
	return adapter.WithAnchor(dir)
}

// WithModules sets the module registry.
func WithModules(r *Registry) Option {
	return adapter.WithModules(r)
}

// WithLogger sets the adapter's logger.
func WithLogger(l *slog.Logger) Option {
	return adapter.WithLogger(l)
}

// WithTracer sets the tracer used for invocation spans.
func WithTracer(t trace.Tracer) Option {
	return adapter.WithTracer(t)
}

// WithRecorder records every invocation.
func WithRecorder(r Recorder) Option {
	return adapter.WithRecorder(r)
}

// WithEvents sends adapter events to ch without blocking.
func WithEvents(ch chan<- Event) Option {
	return adapter.WithEvents(ch)
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return module.NewRegistry()
}

// Register adds a loader to the default module registry.
func Register(id string, loader Loader) error {
	return module.Register(id, loader)
}

// RegisterValue adds an already loaded module to the default registry.
func RegisterValue(id string, v any) error {
	return module.RegisterValue(id, v)
}

// NewGormRecorder creates a new GORM-backed recorder.
func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return storage.NewGormRecorder(db)
}

// WithStatus wraps an error with an HTTP status code.
func WithStatus(status int, err error) error {
	return core.WithStatus(status, err)
}

// Errorf formats an error message and attaches a status code to it.
func Errorf(status int, format string, args ...any) error {
	return core.Errorf(status, format, args...)
}

// ResultFromContext returns the result forwarded by a chained adapter.
func ResultFromContext(ctx context.Context) (any, bool) {
	return adapter.ResultFromContext(ctx)
}

// ErrorFromContext returns the error forwarded by a chained adapter.
func ErrorFromContext(ctx context.Context) error {
	return adapter.ErrorFromContext(ctx)
}

// ResultResponder writes whatever a chained adapter forwarded.
var ResultResponder = adapter.ResultResponder
