package core

import (
	"fmt"
	"reflect"
	"runtime"
)

// Target describes the operation an adapter invokes. It is either a Func
// holding a callable directly or a ModulePath naming a module that resolves
// to one.
type Target interface {
	// Name returns a human readable name used in logs and invocation records.
	Name() string
	isTarget()
}

// Func is a Target holding a callable directly.
type Func struct {
	Fn any
}

func (Func) isTarget() {}

// Name returns the runtime name of the wrapped function.
func (f Func) Name() string {
	v := reflect.ValueOf(f.Fn)
	if !v.IsValid() {
		return "<nil>"
	}
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("<%s>", v.Kind())
	}
	if v.IsNil() {
		return "<nil func>"
	}
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return "<func>"
}

// ModulePath is a Target naming a module. Identifiers starting with "." are
// relative and are joined onto the adapter's anchor directory before loading.
type ModulePath struct {
	ID string
}

func (ModulePath) isTarget() {}

// Name returns the module identifier as given.
func (m ModulePath) Name() string {
	return m.ID
}
