package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/storage"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestStore(t *testing.T) *storage.GormRecorder {
	t.Helper()
	db, err := storage.OpenSQLite(":memory:")
	require.NoError(t, err)
	rec, err := storage.NewGormRecorderWithPool(db, storage.MaxOpenConns(1), storage.MaxIdleConns(1))
	require.NoError(t, err)
	require.NoError(t, rec.Migrate(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return rec
}

func seed(t *testing.T, rec *storage.GormRecorder, target string, outcome core.Outcome, at time.Time) *core.Invocation {
	t.Helper()
	inv := &core.Invocation{Target: target, Outcome: outcome, Status: 200, StartedAt: at}
	require.NoError(t, rec.Record(context.Background(), inv))
	return inv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, path, nil))
	return rw
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func TestHandler_ListInvocations(t *testing.T) {
	rec := newTestStore(t)
	now := time.Now()
	seed(t, rec, "a", core.OutcomeSucceeded, now)
	seed(t, rec, "b", core.OutcomeFailed, now.Add(time.Second))

	rw := get(t, Handler(rec), "/invocations")
	require.Equal(t, http.StatusOK, rw.Code)

	var invs []core.Invocation
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &invs))
	require.Len(t, invs, 2)
	assert.Equal(t, "b", invs[0].Target)
}

func TestHandler_ListEmptyIsArray(t *testing.T) {
	rw := get(t, Handler(newTestStore(t)), "/invocations")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, "[]", rw.Body.String())
}

func TestHandler_ListByTargetAndLimit(t *testing.T) {
	rec := newTestStore(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		seed(t, rec, "a", core.OutcomeSucceeded, now.Add(time.Duration(i)*time.Second))
	}
	seed(t, rec, "b", core.OutcomeSucceeded, now)

	rw := get(t, Handler(rec), "/invocations?target=a&limit=2")
	require.Equal(t, http.StatusOK, rw.Code)

	var invs []core.Invocation
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &invs))
	require.Len(t, invs, 2)
	for _, inv := range invs {
		assert.Equal(t, "a", inv.Target)
	}
}

func TestHandler_LimitCapped(t *testing.T) {
	rec := newTestStore(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		seed(t, rec, "a", core.OutcomeSucceeded, now.Add(time.Duration(i)*time.Second))
	}

	rw := get(t, Handler(rec, WithMaxLimit(1)), "/invocations?limit=50")
	require.Equal(t, http.StatusOK, rw.Code)

	var invs []core.Invocation
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &invs))
	assert.Len(t, invs, 1)
}

func TestHandler_InvalidLimit(t *testing.T) {
	rw := get(t, Handler(newTestStore(t)), "/invocations?limit=many")
	assert.Equal(t, http.StatusBadRequest, rw.Code)
	assert.Contains(t, rw.Body.String(), `invalid limit "many"`)
}

func TestHandler_GetInvocation(t *testing.T) {
	rec := newTestStore(t)
	inv := seed(t, rec, "a", core.OutcomeSucceeded, time.Now())

	rw := get(t, Handler(rec), "/invocations/"+inv.ID)
	require.Equal(t, http.StatusOK, rw.Code)

	var got core.Invocation
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, "a", got.Target)
}

func TestHandler_GetInvocationNotFound(t *testing.T) {
	rw := get(t, Handler(newTestStore(t)), "/invocations/nope")
	assert.Equal(t, http.StatusNotFound, rw.Code)
	assert.Equal(t, storage.ErrInvocationNotFound.Error(), rw.Body.String())
}

func TestHandler_Stats(t *testing.T) {
	rec := newTestStore(t)
	now := time.Now()
	seed(t, rec, "a", core.OutcomeSucceeded, now)
	seed(t, rec, "a", core.OutcomeFailed, now)
	seed(t, rec, "a", core.OutcomeFailed, now)

	rw := get(t, Handler(rec), "/stats")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.JSONEq(t, `{"succeeded":1,"failed":2}`, rw.Body.String())
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

func TestHandler_WithMiddleware(t *testing.T) {
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	rw := get(t, Handler(newTestStore(t), WithMiddleware(blocked)), "/stats")
	assert.Equal(t, http.StatusUnauthorized, rw.Code)
}

type failingStore struct{ Store }

func (failingStore) CountByOutcome(context.Context, core.Outcome) (int64, error) {
	return 0, errors.New("db down")
}

func TestHandler_StoreErrorIs500(t *testing.T) {
	rw := get(t, Handler(failingStore{}), "/stats")
	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Equal(t, "db down", rw.Body.String())
}
