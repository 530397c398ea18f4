// Package core provides the fundamental types and interfaces for the thinware package.
//
// This package contains:
//   - Target and Args descriptors (the sealed variants an adapter is built from)
//   - The Continuation callback used for chain-style dispatch
//   - The Invocation record model with GORM annotations
//   - Recorder interface defining the persistence contract for invocation records
//   - Event types for adapter monitoring
//   - Error types for resolution and invocation failures
//
// Most users should import the root package github.com/jdziat/thinware
// instead of this package directly.
package core
