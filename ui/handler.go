// Package ui serves recorded invocations as JSON.
package ui

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jdziat/thinware/pkg/adapter"
	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/storage"
)

// Store is the read side of an invocation recorder.
type Store interface {
	List(ctx context.Context, limit int) ([]core.Invocation, error)
	ListByTarget(ctx context.Context, target string, limit int) ([]core.Invocation, error)
	Get(ctx context.Context, id string) (*core.Invocation, error)
	CountByOutcome(ctx context.Context, outcome core.Outcome) (int64, error)
}

// Stats summarises recorded outcomes.
type Stats struct {
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Handler creates an http.Handler exposing recorded invocations.
//
// Routes:
//
//	GET /invocations?limit=N&target=NAME
//	GET /invocations/{id}
//	GET /stats
//
// Usage:
//
//	r.Mount("/thinware", ui.Handler(recorder))
func Handler(store Store, opts ...Option) http.Handler {
	cfg := &config{maxLimit: 500}
	for _, opt := range opts {
		opt.apply(cfg)
	}

	var adapterOpts []adapter.Option
	if cfg.logger != nil {
		adapterOpts = append(adapterOpts, adapter.WithLogger(cfg.logger))
	}

	v := &view{store: store, maxLimit: cfg.maxLimit}

	r := chi.NewRouter()
	r.Use(middleware.GetHead)
	r.Method(http.MethodGet, "/invocations",
		adapter.New(core.Func{Fn: v.list}, core.ArgsResolver{Fn: v.listArgs}, adapterOpts...))
	r.Method(http.MethodGet, "/invocations/{id}",
		adapter.New(core.Func{Fn: v.get}, core.ArgsResolver{Fn: invocationID}, adapterOpts...))
	r.Method(http.MethodGet, "/stats",
		adapter.New(core.Func{Fn: v.stats}, nil, adapterOpts...))

	if cfg.middleware != nil {
		return cfg.middleware(r)
	}
	return r
}

type view struct {
	store    Store
	maxLimit int
}

type listQuery struct {
	Limit  int
	Target string
}

func (v *view) listArgs(r *http.Request) (any, error) {
	q := listQuery{Target: r.URL.Query().Get("target")}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, core.Errorf(http.StatusBadRequest, "invalid limit %q", s)
		}
		q.Limit = n
	}
	if q.Limit == 0 || q.Limit > v.maxLimit {
		q.Limit = v.maxLimit
	}
	return q, nil
}

func (v *view) list(ctx context.Context, q listQuery) ([]core.Invocation, error) {
	var (
		invs []core.Invocation
		err  error
	)
	if q.Target != "" {
		invs, err = v.store.ListByTarget(ctx, q.Target, q.Limit)
	} else {
		invs, err = v.store.List(ctx, q.Limit)
	}
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []core.Invocation{}
	}
	return invs, nil
}

func invocationID(r *http.Request) (any, error) {
	return chi.URLParam(r, "id"), nil
}

func (v *view) get(ctx context.Context, id string) (*core.Invocation, error) {
	inv, err := v.store.Get(ctx, id)
	if errors.Is(err, storage.ErrInvocationNotFound) {
		return nil, core.WithStatus(http.StatusNotFound, err)
	}
	return inv, err
}

func (v *view) stats(ctx context.Context) (Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.Succeeded, err = v.store.CountByOutcome(ctx, core.OutcomeSucceeded); err != nil {
		return s, err
	}
	if s.Failed, err = v.store.CountByOutcome(ctx, core.OutcomeFailed); err != nil {
		return s, err
	}
	return s, nil
}
