package adapter

import (
	"context"
	"net/http"

	intctx "github.com/jdziat/thinware/pkg/internal/context"
)

// Middleware returns the adapter as net/http middleware. In chain mode the
// outcome is stored in the request context and next is called; read it with
// ResultFromContext and ErrorFromContext. Without chain mode the outcome is
// written to the response and next is never called.
func (a *Adapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.handle(w, r, func(r *http.Request, err error, result any) {
			ctx := intctx.WithOutcome(r.Context(), &intctx.Outcome{
				InvocationID: intctx.GetInvocationID(r.Context()),
				Result:       result,
				Err:          err,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
}

// ResultFromContext returns the result a chained adapter forwarded. The
// boolean is false when no adapter ran or it forwarded an error.
func ResultFromContext(ctx context.Context) (any, bool) {
	o := intctx.GetOutcome(ctx)
	if o == nil || o.Err != nil {
		return nil, false
	}
	return o.Result, true
}

// ErrorFromContext returns the error a chained adapter forwarded, if any.
func ErrorFromContext(ctx context.Context) error {
	if o := intctx.GetOutcome(ctx); o != nil {
		return o.Err
	}
	return nil
}

// InvocationID returns the id of the invocation serving ctx's request.
func InvocationID(ctx context.Context) string {
	return intctx.GetInvocationID(ctx)
}

// ErrorResponder is the end of a chain: it writes a forwarded error with
// WriteError and otherwise calls next.
func ErrorResponder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ErrorFromContext(r.Context()); err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ResultResponder is an http.Handler that writes a forwarded result with
// WriteResult, or a forwarded error with WriteError.
var ResultResponder = ErrorResponder(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	result, _ := ResultFromContext(r.Context())
	WriteResult(w, r, result)
}))
