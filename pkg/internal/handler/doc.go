// Package handler provides internal reflection-based target invocation.
//
// This package is internal and should not be imported directly.
// It provides:
//   - Handler: signature metadata for an arbitrary target function
//   - Positional argument conversion from []any to the target's parameter types
//   - Invocation with panic recovery and (T, error) result unpacking
package handler
