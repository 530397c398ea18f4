package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func namedTarget() string { return "" }

func TestFuncName(t *testing.T) {
	assert.True(t, strings.HasSuffix(Func{Fn: namedTarget}.Name(), "core.namedTarget"))
	assert.Equal(t, "<nil>", Func{}.Name())
	assert.Equal(t, "<string>", Func{Fn: "nope"}.Name())

	var nilFn func()
	assert.Equal(t, "<nil func>", Func{Fn: nilFn}.Name())
}

func TestModulePathName(t *testing.T) {
	assert.Equal(t, "./handlers/users", ModulePath{ID: "./handlers/users"}.Name())
}

func TestDescriptorVariants(t *testing.T) {
	targets := []Target{Func{}, ModulePath{}}
	assert.Len(t, targets, 2)

	args := []Args{StaticArgs{}, ValueArg{}, ArgsResolver{}}
	assert.Len(t, args, 3)
}
