package thinware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/thinware"
	"github.com/jdziat/thinware/pkg/storage"
)

func quiet() thinware.Option {
	return thinware.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, path, nil))
	return rw
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func TestFacadeNew_StaticArgs(t *testing.T) {
	add := func(a, b int) int { return a + b }
	rw := do(t, thinware.New(thinware.Func(add), thinware.Static(2, 3), quiet()), "/")

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, "5", rw.Body.String())
}

func TestFacadeNew_ValueArg(t *testing.T) {
	greet := func(name string) string { return "hello " + name }
	rw := do(t, thinware.New(thinware.Func(greet), thinware.Value("ada"), quiet()), "/")

	assert.Equal(t, "hello ada", rw.Body.String())
}

func TestFacadeNew_ResolverWithChi(t *testing.T) {
	echo := func(id string) string { return id }
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/items/{id}", thinware.New(
		thinware.Func(echo),
		thinware.Resolver(func(r *http.Request) (any, error) {
			return chi.URLParam(r, "id"), nil
		}),
		quiet(),
	))

	rw := do(t, r, "/items/42")
	assert.Equal(t, "42", rw.Body.String())
}

func TestFacadeNext_ChainsToResultResponder(t *testing.T) {
	double := func(n int) int { return n * 2 }
	a := thinware.Next(thinware.Func(double), thinware.Value(21), quiet())
	require.True(t, a.Chained())

	rw := do(t, a.Middleware(thinware.ResultResponder), "/")
	assert.JSONEq(t, "42", rw.Body.String())
}

func TestFacadeNext_ContinuationReceivesError(t *testing.T) {
	fail := func() error { return thinware.Errorf(http.StatusTeapot, "short and stout") }
	a := thinware.Next(thinware.Func(fail), nil, quiet())

	var got error
	rw := httptest.NewRecorder()
	a.Handle(rw, httptest.NewRequest(http.MethodGet, "/", nil), func(err error, result any) {
		got = err
	})

	require.Error(t, got)
	var se *thinware.StatusError
	require.ErrorAs(t, got, &se)
	assert.Equal(t, http.StatusTeapot, se.Status)
}

func TestFacadeNewBasic_Always500(t *testing.T) {
	fail := func() error { return thinware.WithStatus(http.StatusNotFound, errors.New("gone")) }
	rw := do(t, thinware.NewBasic(thinware.Func(fail), nil, quiet()), "/")

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Equal(t, "gone", rw.Body.String())
}

func TestFacadeWithChain(t *testing.T) {
	a := thinware.New(thinware.Func(func() {}), nil, thinware.WithChain(true))
	assert.True(t, a.Chained())
}

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

func TestFacadeModule_RelativeToAnchor(t *testing.T) {
	dir := t.TempDir()
	reg := thinware.NewRegistry()
	require.NoError(t, reg.RegisterValue(filepath.Join(dir, "handlers", "ping"), func() string { return "pong" }))

	a := thinware.New(thinware.Module("./handlers/ping"), nil,
		thinware.WithAnchor(dir), thinware.WithModules(reg), quiet())

	rw := do(t, a, "/")
	assert.Equal(t, "pong", rw.Body.String())
}

func TestFacadeModule_NotFound(t *testing.T) {
	a := thinware.New(thinware.Module("/nowhere/at/all"), nil,
		thinware.WithModules(thinware.NewRegistry()), quiet())

	rw := do(t, a, "/")
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, rw.Body.String(), thinware.ErrModuleNotFound.Error())
}

func TestFacadeRegister_DefaultRegistry(t *testing.T) {
	id := "/thinware-facade-test/loader"
	require.NoError(t, thinware.Register(id, func(ctx context.Context) (any, error) {
		return func() string { return "loaded" }, nil
	}))

	rw := do(t, thinware.New(thinware.Module(id), nil, quiet()), "/")
	assert.Equal(t, "loaded", rw.Body.String())
}

func TestFacadeRegisterValue_Deferred(t *testing.T) {
	id := "/thinware-facade-test/deferred"
	var d thinware.Deferred = func(ctx context.Context) (any, error) {
		return func() string { return "awaited" }, nil
	}
	require.NoError(t, thinware.RegisterValue(id, d))

	rw := do(t, thinware.New(thinware.Module(id), nil, quiet()), "/")
	assert.Equal(t, "awaited", rw.Body.String())
}

// ---------------------------------------------------------------------------
// Recorder and events
// ---------------------------------------------------------------------------

func TestFacadeNewGormRecorder(t *testing.T) {
	db, err := storage.OpenSQLite(":memory:")
	require.NoError(t, err)
	_, err = storage.ConfigurePool(db, storage.MaxOpenConns(1))
	require.NoError(t, err)
	rec := thinware.NewGormRecorder(db)
	require.NoError(t, rec.Migrate(context.Background()))

	a := thinware.New(thinware.Func(strings.ToUpper), thinware.Value("abc"),
		thinware.WithRecorder(rec), quiet())
	rw := do(t, a, "/")
	require.Equal(t, "ABC", rw.Body.String())

	invs, err := rec.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, thinware.OutcomeSucceeded, invs[0].Outcome)
	assert.Equal(t, 1, invs[0].ArgCount)
}

func TestFacadeWithEvents(t *testing.T) {
	events := make(chan thinware.Event, 4)
	a := thinware.New(thinware.Func(func() {}), nil, thinware.WithEvents(events), quiet())
	do(t, a, "/")

	require.Len(t, events, 2)
	_, ok := (<-events).(*thinware.InvocationStarted)
	assert.True(t, ok)
	_, ok = (<-events).(*thinware.InvocationSucceeded)
	assert.True(t, ok)
}

func TestFacadeContextAccessors(t *testing.T) {
	a := thinware.Next(thinware.Func(func() int { return 7 }), nil, quiet())
	var (
		result any
		ok     bool
		err    error
	)
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, ok = thinware.ResultFromContext(r.Context())
		err = thinware.ErrorFromContext(r.Context())
	}))
	do(t, h, "/")

	assert.True(t, ok)
	assert.Equal(t, 7, result)
	assert.NoError(t, err)
}
