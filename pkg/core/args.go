package core

import (
	"math"
	"net/http"
	"reflect"
)

// Args describes how an adapter obtains the positional arguments for its
// target. A nil Args means the target is called with no arguments.
type Args interface {
	isArgs()
}

// StaticArgs is a fixed, ordered argument list.
type StaticArgs struct {
	Values []any
}

func (StaticArgs) isArgs() {}

// ValueArg is a single argument value. It is normalised with Normalize, so a
// []any value is used as the full list and an absent or falsy value yields no
// arguments. Other slice types, such as []string, are one argument.
type ValueArg struct {
	Value any
}

func (ValueArg) isArgs() {}

// ArgsResolver derives the arguments from the incoming request. Fn is called
// once per request and its result is normalised with Normalize.
//
// Only a []any result is spread into positional arguments. A typed slice such
// as []string is passed to the target as a single argument; convert it to
// []any to spread it.
type ArgsResolver struct {
	Fn func(*http.Request) (any, error)
}

func (ArgsResolver) isArgs() {}

// Continuation is the "next handler" callback used in chain mode. It receives
// either a non-nil error or the target's result.
type Continuation func(err error, result any)

// Normalize turns an argument value into a positional argument list.
// A []any is returned as a copy, an absent or falsy value yields nil and
// anything else, typed slices included, is wrapped in a one-element list.
func Normalize(v any) []any {
	if IsFalsy(v) {
		return nil
	}
	if list, ok := v.([]any); ok {
		return append(make([]any, 0, len(list)), list...)
	}
	return []any{v}
}

// IsFalsy reports whether v counts as an absent argument value: nil, a nil
// pointer, map, slice, func, chan or interface, false, a numeric zero or the
// empty string.
func IsFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}
