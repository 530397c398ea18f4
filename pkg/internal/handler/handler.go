// Package handler provides reflection-based target invocation for the thinware package.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/security"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Handler holds signature metadata about a target function.
type Handler struct {
	Fn         reflect.Value
	HasContext bool
	Params     []reflect.Type
	Variadic   bool
	HasResult  bool
	HasError   bool
}

// NewHandler creates a Handler from a function.
// The function may take any parameters, optionally led by a context.Context,
// and must return nothing, a single value, an error, or (T, error).
func NewHandler(fn any) (*Handler, error) {
	if fn == nil {
		return nil, core.ErrNilTarget
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %s", core.ErrNotCallable, fnType.Kind())
	}

	// Check for typed nil (e.g., var fn func() = nil)
	if fnVal.IsNil() {
		return nil, core.ErrNilTarget
	}

	h := &Handler{Fn: fnVal, Variadic: fnType.IsVariadic()}

	first := 0
	if fnType.NumIn() > 0 && fnType.In(0) == contextType {
		h.HasContext = true
		first = 1
	}
	for i := first; i < fnType.NumIn(); i++ {
		h.Params = append(h.Params, fnType.In(i))
	}

	switch fnType.NumOut() {
	case 0:
	case 1:
		if fnType.Out(0).Implements(errorType) {
			h.HasError = true
		} else {
			h.HasResult = true
		}
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return nil, fmt.Errorf("%w: second return value must be an error", core.ErrNotCallable)
		}
		h.HasResult = true
		h.HasError = true
	default:
		return nil, fmt.Errorf("%w: must return at most (T, error)", core.ErrNotCallable)
	}

	return h, nil
}

// Call invokes the target with positional arguments and returns its result.
// Missing arguments are passed as zero values. A panic inside the target is
// returned as an error wrapping core.ErrTargetPanicked.
func (h *Handler) Call(ctx context.Context, args []any) (result any, err error) {
	if !h.Fn.IsValid() || h.Fn.IsNil() {
		return nil, core.ErrNilTarget
	}

	in, err := h.arguments(ctx, args)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", core.ErrTargetPanicked, e)
				return
			}
			err = fmt.Errorf("%w: %v", core.ErrTargetPanicked, r)
		}
	}()

	out := h.Fn.Call(in)

	if h.HasError {
		if e := asError(out[len(out)-1]); e != nil {
			return nil, e
		}
	}
	if h.HasResult {
		return out[0].Interface(), nil
	}
	return nil, nil
}

func (h *Handler) arguments(ctx context.Context, args []any) ([]reflect.Value, error) {
	if len(args) > security.MaxArguments {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", core.ErrTooManyArguments, len(args), security.MaxArguments)
	}

	fixed := h.Params
	if h.Variadic {
		fixed = h.Params[:len(h.Params)-1]
	}
	if !h.Variadic && len(args) > len(fixed) {
		return nil, fmt.Errorf("%w: target takes %d, got %d", core.ErrTooManyArguments, len(fixed), len(args))
	}

	in := make([]reflect.Value, 0, len(args)+1)
	if h.HasContext {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
	}

	for i, t := range fixed {
		if i >= len(args) {
			in = append(in, reflect.Zero(t))
			continue
		}
		v, err := convert(args[i], t)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v", core.ErrArgumentMismatch, i, err)
		}
		in = append(in, v)
	}

	if h.Variadic {
		elem := h.Params[len(h.Params)-1].Elem()
		for i := len(fixed); i < len(args); i++ {
			v, err := convert(args[i], elem)
			if err != nil {
				return nil, fmt.Errorf("%w: argument %d: %v", core.ErrArgumentMismatch, i, err)
			}
			in = append(in, v)
		}
	}

	return in, nil
}

// convert coerces an argument to the parameter type. Assignable values pass
// through, numeric values are converted between numeric kinds when the value
// fits and anything else is re-decoded through JSON.
func convert(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		if !fits(v, t) {
			return reflect.Value{}, fmt.Errorf("%v does not fit in %s", arg, t)
		}
		return v.Convert(t), nil
	}
	if v.Kind() == reflect.String && t.Kind() == reflect.String {
		return v.Convert(t), nil
	}

	raw, err := json.Marshal(arg)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("cannot marshal %s: %w", v.Type(), err)
	}
	ptr := reflect.New(t)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s: %w", v.Type(), t, err)
	}
	return ptr.Elem(), nil
}

// fits reports whether the numeric value v converts to t without truncation,
// wrap-around or overflow. Rounding between float widths is allowed.
func fits(v reflect.Value, t reflect.Type) bool {
	dst := reflect.New(t).Elem()
	switch {
	case isFloat(t.Kind()):
		if !isFloat(v.Kind()) {
			return true
		}
		f := v.Float()
		return math.IsNaN(f) || math.IsInf(f, 0) || !dst.OverflowFloat(f)

	case isSigned(t.Kind()):
		switch {
		case isSigned(v.Kind()):
			return !dst.OverflowInt(v.Int())
		case isFloat(v.Kind()):
			f := v.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return false
			}
			return !dst.OverflowInt(int64(f))
		default:
			u := v.Uint()
			return u <= math.MaxInt64 && !dst.OverflowInt(int64(u))
		}

	default:
		switch {
		case isSigned(v.Kind()):
			i := v.Int()
			return i >= 0 && !dst.OverflowUint(uint64(i))
		case isFloat(v.Kind()):
			f := v.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return false
			}
			return !dst.OverflowUint(uint64(f))
		default:
			return !dst.OverflowUint(v.Uint())
		}
	}
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func asError(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	e, _ := v.Interface().(error)
	return e
}
