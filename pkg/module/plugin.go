package module

import (
	"context"
	"fmt"
	"plugin"
	"reflect"
	"strings"

	"github.com/jdziat/thinware/pkg/core"
)

// DefaultPluginSymbol is the symbol looked up in plugin modules.
const DefaultPluginSymbol = "Handler"

// PluginFinder returns a Finder that opens Go plugins for identifiers ending
// in ".so" and looks up symbol. A symbol that is a variable holding a function
// is dereferenced.
func PluginFinder(symbol string) Finder {
	return func(_ context.Context, id string) (any, error) {
		if !strings.HasSuffix(id, ".so") {
			return nil, fmt.Errorf("%w: %q", core.ErrModuleNotFound, id)
		}

		p, err := plugin.Open(id)
		if err != nil {
			return nil, err
		}

		sym, err := p.Lookup(symbol)
		if err != nil {
			return nil, err
		}

		v := reflect.ValueOf(sym)
		if v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Func {
			return v.Elem().Interface(), nil
		}
		return sym, nil
	}
}
