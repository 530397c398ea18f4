package security

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdziat/thinware/pkg/core"
)

func TestValidateModuleID_Valid(t *testing.T) {
	validIDs := []string{
		"handlers",
		"./handlers/users",
		"../shared/echo",
		"/srv/app/handlers/users",
		"plugins/echo.so",
		"@scope/pkg",
		"a",
	}

	for _, id := range validIDs {
		err := ValidateModuleID(id)
		assert.NoError(t, err, "Expected %q to be valid", id)
	}
}

func TestValidateModuleID_Invalid(t *testing.T) {
	invalidIDs := []string{
		"",                      // empty
		"handlers with spaces",  // contains spaces
		"handlers//users",       // empty segment
		"handlers\x00users",     // null byte
		"handlers?x=1",          // query characters
	}

	for _, id := range invalidIDs {
		err := ValidateModuleID(id)
		assert.ErrorIs(t, err, core.ErrInvalidModuleID, "Expected %q to be invalid", id)
	}
}

func TestValidateModuleID_TooLong(t *testing.T) {
	err := ValidateModuleID(strings.Repeat("a", MaxModuleIDLength+1))
	assert.ErrorIs(t, err, core.ErrModuleIDTooLong)
}

func TestIsRelative(t *testing.T) {
	assert.True(t, IsRelative("./users"))
	assert.True(t, IsRelative("../users"))
	assert.True(t, IsRelative(".hidden"))
	assert.False(t, IsRelative("/srv/users"))
	assert.False(t, IsRelative("users"))
}

func TestSanitizeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "boom", "boom"},
		{"keeps newlines and tabs", "line1\n\tline2", "line1\n\tline2"},
		{"strips null bytes", "bad\x00value", "badvalue"},
		{"strips bell and delete", "a\x07b\x7fc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeErrorMessage(tt.input))
		})
	}
}

func TestSanitizeErrorMessage_Truncation(t *testing.T) {
	longMessage := strings.Repeat("x", MaxErrorMessageLength+100)
	result := SanitizeErrorMessage(longMessage)
	assert.Equal(t, MaxErrorMessageLength, len([]rune(result)))
	assert.True(t, strings.HasSuffix(result, "..."))
}

func TestClampStatus(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, http.StatusInternalServerError},
		{-1, http.StatusInternalServerError},
		{99, http.StatusInternalServerError},
		{1000, http.StatusInternalServerError},
		{http.StatusNotFound, http.StatusNotFound},
		{http.StatusTeapot, http.StatusTeapot},
		{http.StatusContinue, http.StatusInternalServerError},
		{http.StatusEarlyHints, http.StatusInternalServerError},
		{199, http.StatusInternalServerError},
		{http.StatusOK, http.StatusOK},
		{999, 999},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClampStatus(tt.input), "ClampStatus(%d)", tt.input)
	}
}
