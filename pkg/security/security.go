package security

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jdziat/thinware/pkg/core"
)

// Security limits and configuration
const (
	// MaxModuleIDLength is the maximum length for module identifiers
	MaxModuleIDLength = 1024

	// MaxArguments is the hard limit for positional arguments passed to a target
	MaxArguments = 256

	// MaxErrorMessageLength is the maximum length for recorded error messages
	MaxErrorMessageLength = 4096
)

// validModuleID matches slash separated segments of letters, digits, hyphens,
// underscores and dots. A leading "/" marks an absolute id.
var validModuleID = regexp.MustCompile(`^/?[a-zA-Z0-9_\-\.@]+(/[a-zA-Z0-9_\-\.@]+)*/?$`)

// ValidateModuleID validates a module identifier before it is resolved.
func ValidateModuleID(id string) error {
	if id == "" {
		return core.ErrInvalidModuleID
	}
	if len(id) > MaxModuleIDLength {
		return core.ErrModuleIDTooLong
	}
	if strings.ContainsRune(id, '\x00') || !validModuleID.MatchString(id) {
		return core.ErrInvalidModuleID
	}
	return nil
}

// IsRelative reports whether a module identifier is relative to the anchor.
func IsRelative(id string) bool {
	return strings.HasPrefix(id, ".")
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > MaxErrorMessageLength {
		runes := []rune(result)
		result = string(runes[:MaxErrorMessageLength-3]) + "..."
	}

	return result
}

// ClampStatus returns status if it can carry an error response, otherwise 500.
// Informational 1xx codes are rejected since net/http would follow them with
// an implicit 200. A zero status (nothing carried) also maps to 500.
func ClampStatus(status int) int {
	if status < 200 || status > 999 {
		return http.StatusInternalServerError
	}
	return status
}
