// Package context provides internal context helpers for chain dispatch.
//
// This package is internal and should not be imported directly.
// It provides context value types for:
//   - Outcome: the (error, result) pair an adapter hands to the next http.Handler
//   - Invocation id: the id of the invocation that produced the outcome
package context
