// Package security provides validation, sanitization, and limits for the thinware package.
//
// This package includes:
//   - Input validation for module identifiers
//   - Error message sanitization for invocation records
//   - Status clamping so a carried status can always be written to a response
//   - Security-related constants defining maximum sizes and counts
//
// Most users should import the root package github.com/jdziat/thinware
// which re-exports these functions.
package security
