package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jdziat/thinware/pkg/core"
	intctx "github.com/jdziat/thinware/pkg/internal/context"
	"github.com/jdziat/thinware/pkg/internal/handler"
	"github.com/jdziat/thinware/pkg/module"
	"github.com/jdziat/thinware/pkg/security"
)

// DefaultAnchor is the anchor used when WithAnchor is not given: the working
// directory of the process at start-up.
var DefaultAnchor = func() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "/"
}()

const tracerName = "github.com/jdziat/thinware/pkg/adapter"

// Adapter invokes a target for every request it serves.
type Adapter struct {
	target core.Target
	args   core.Args
	basic  bool
	config
}

// New creates an Adapter. Outcomes are written to the response unless
// WithChain(true) is given and a continuation is supplied.
func New(target core.Target, args core.Args, opts ...Option) *Adapter {
	a := &Adapter{target: target, args: args}
	for _, opt := range opts {
		opt.apply(&a.config)
	}
	if a.anchor == "" {
		a.anchor = DefaultAnchor
	}
	if a.modules == nil {
		a.modules = module.Default
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	return a
}

// Next creates an Adapter in chain mode. It is New with WithChain(true).
func Next(target core.Target, args core.Args, opts ...Option) *Adapter {
	return New(target, args, append(opts, WithChain(true))...)
}

// NewBasic creates an Adapter that always writes to the response. It ignores
// any continuation, and failures are answered with 500 whatever status the
// error carries.
func NewBasic(target core.Target, args core.Args, opts ...Option) *Adapter {
	a := New(target, args, opts...)
	a.basic = true
	a.chain = false
	return a
}

// Chained reports whether the adapter forwards outcomes to continuations.
func (a *Adapter) Chained() bool {
	return a.chain
}

// Anchor returns the directory relative module identifiers resolve against.
func (a *Adapter) Anchor() string {
	return a.anchor
}

// ServeHTTP implements http.Handler. It is Handle without a continuation.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handle(w, r, nil)
}

// Handle serves one request. In chain mode a non-nil next receives the
// outcome; otherwise the outcome is written to w.
func (a *Adapter) Handle(w http.ResponseWriter, r *http.Request, next core.Continuation) {
	if next == nil {
		a.handle(w, r, nil)
		return
	}
	a.handle(w, r, func(_ *http.Request, err error, result any) {
		next(err, result)
	})
}

type continuation func(r *http.Request, err error, result any)

func (a *Adapter) handle(w http.ResponseWriter, r *http.Request, next continuation) {
	// Bind this request's own copies of the descriptors.
	target, args := a.target, a.args

	inv := &core.Invocation{
		ID:        uuid.New().String(),
		RequestID: middleware.GetReqID(r.Context()),
		Target:    targetName(target),
		Method:    r.Method,
		Path:      r.URL.Path,
		StartedAt: time.Now(),
	}

	ctx, span := a.tracer.Start(r.Context(), "thinware.invoke",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("thinware.invocation_id", inv.ID),
			attribute.String("thinware.target", inv.Target),
			attribute.String("http.request.method", r.Method),
		),
	)
	defer span.End()

	ctx = intctx.WithInvocationID(ctx, inv.ID)
	r = r.WithContext(ctx)
	logger := a.logger.With(
		slog.String("invocation_id", inv.ID),
		slog.String("target", inv.Target),
	)
	if inv.RequestID != "" {
		logger = logger.With(slog.String("request_id", inv.RequestID))
	}
	if sc := span.SpanContext(); sc.HasTraceID() {
		logger = logger.With(slog.String("trace_id", sc.TraceID().String()))
	}

	for _, fn := range a.onInvoke {
		fn(ctx, r)
	}
	a.emit(&core.InvocationStarted{ID: inv.ID, Target: inv.Target, Timestamp: inv.StartedAt})

	result, err := a.invoke(r, target, args, inv, logger)
	inv.Duration = time.Since(inv.StartedAt)
	inv.Chained = a.chain && !a.basic && next != nil
	span.SetAttributes(attribute.Bool("thinware.chained", inv.Chained))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.fail(w, r, next, inv, logger, err)
	} else {
		a.succeed(w, r, next, inv, logger, result)
	}

	a.record(ctx, inv, logger)
}

func (a *Adapter) invoke(r *http.Request, target core.Target, args core.Args, inv *core.Invocation, logger *slog.Logger) (any, error) {
	ctx := r.Context()

	fn, err := a.resolveTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	list, err := resolveArgs(r, args)
	if err != nil {
		return nil, err
	}
	inv.ArgCount = len(list)

	h, err := handler.NewHandler(fn)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "invoking target", slog.Int("args", len(list)))
	return h.Call(ctx, list)
}

func (a *Adapter) resolveTarget(ctx context.Context, target core.Target) (any, error) {
	switch t := target.(type) {
	case core.Func:
		return t.Fn, nil
	case core.ModulePath:
		return a.modules.Load(ctx, a.anchor, t.ID)
	case nil:
		return nil, core.ErrNilTarget
	default:
		return nil, fmt.Errorf("%w: unsupported target %T", core.ErrNotCallable, target)
	}
}

// resolveArgs returns a fresh argument list for one request.
func resolveArgs(r *http.Request, args core.Args) (list []any, err error) {
	switch a := args.(type) {
	case nil:
		return nil, nil
	case core.StaticArgs:
		if a.Values == nil {
			return nil, nil
		}
		return append([]any(nil), a.Values...), nil
	case core.ValueArg:
		return core.Normalize(a.Value), nil
	case core.ArgsResolver:
		if a.Fn == nil {
			return nil, nil
		}
		defer func() {
			if rec := recover(); rec != nil {
				list = nil
				if e, ok := rec.(error); ok {
					err = fmt.Errorf("thinware: argument resolver panicked: %w", e)
					return
				}
				err = fmt.Errorf("thinware: argument resolver panicked: %v", rec)
			}
		}()
		v, err := a.Fn(r)
		if err != nil {
			return nil, err
		}
		return core.Normalize(v), nil
	default:
		return nil, fmt.Errorf("%w: unsupported arguments %T", core.ErrArgumentMismatch, args)
	}
}

func (a *Adapter) succeed(w http.ResponseWriter, r *http.Request, next continuation, inv *core.Invocation, logger *slog.Logger, result any) {
	ctx := r.Context()
	inv.Outcome = core.OutcomeSucceeded

	for _, fn := range a.onSuccess {
		fn(ctx, result)
	}
	a.emit(&core.InvocationSucceeded{
		ID:        inv.ID,
		Target:    inv.Target,
		Chained:   inv.Chained,
		Duration:  inv.Duration,
		Timestamp: time.Now(),
	})

	if inv.Chained {
		logger.DebugContext(ctx, "forwarding result to continuation")
		next(r, nil, result)
		return
	}

	inv.Status = http.StatusOK
	WriteResult(w, r, result)
}

func (a *Adapter) fail(w http.ResponseWriter, r *http.Request, next continuation, inv *core.Invocation, logger *slog.Logger, err error) {
	ctx := r.Context()
	inv.Outcome = core.OutcomeFailed
	inv.Error = security.SanitizeErrorMessage(err.Error())

	status := http.StatusInternalServerError
	if !a.basic {
		status = security.ClampStatus(core.StatusOf(err))
	}

	for _, fn := range a.onError {
		fn(ctx, err)
	}
	a.emit(&core.InvocationFailed{
		ID:        inv.ID,
		Target:    inv.Target,
		Chained:   inv.Chained,
		Status:    status,
		Error:     err,
		Duration:  inv.Duration,
		Timestamp: time.Now(),
	})

	logger.WarnContext(ctx, "invocation failed",
		slog.String("error", err.Error()),
		slog.Int("status", status),
		slog.Bool("chained", inv.Chained),
	)

	if inv.Chained {
		next(r, err, nil)
		return
	}

	inv.Status = status
	writeError(w, r, status, err)
}

func (a *Adapter) record(ctx context.Context, inv *core.Invocation, logger *slog.Logger) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(context.WithoutCancel(ctx), inv); err != nil {
		logger.ErrorContext(ctx, "failed to record invocation", slog.String("error", err.Error()))
	}
}

func (a *Adapter) emit(e core.Event) {
	for _, ch := range a.events {
		select {
		case ch <- e:
		default:
			// Drop if full - this prevents blocking on slow consumers
		}
	}
}

func targetName(t core.Target) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
