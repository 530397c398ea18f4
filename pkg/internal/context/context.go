// Package context provides context helpers for the thinware package.
package context

import (
	"context"
)

// OutcomeKey is the key for storing an invocation outcome in context.Context.
type OutcomeKey struct{}

// Outcome holds what a chained adapter passed to its continuation.
type Outcome struct {
	InvocationID string
	Result       any
	Err          error
}

// GetOutcome retrieves the outcome from a context.Context.
func GetOutcome(ctx context.Context) *Outcome {
	if o, ok := ctx.Value(OutcomeKey{}).(*Outcome); ok {
		return o
	}
	return nil
}

// WithOutcome adds an outcome to a context.Context.
func WithOutcome(ctx context.Context, o *Outcome) context.Context {
	return context.WithValue(ctx, OutcomeKey{}, o)
}

// InvocationIDKey is the key for storing the current invocation id in context.Context.
type InvocationIDKey struct{}

// GetInvocationID retrieves the invocation id from a context.Context.
func GetInvocationID(ctx context.Context) string {
	if id, ok := ctx.Value(InvocationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithInvocationID adds the invocation id to a context.Context.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, InvocationIDKey{}, id)
}
