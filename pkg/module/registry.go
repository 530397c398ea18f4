package module

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jdziat/thinware/pkg/core"
	"github.com/jdziat/thinware/pkg/security"
)

// Loader instantiates a module.
type Loader func(ctx context.Context) (any, error)

// Deferred marks a module value that has to be awaited before use. The value
// it returns replaces the Deferred.
type Deferred func(ctx context.Context) (any, error)

// Finder loads a module that has no registered loader. The id passed in is
// already resolved.
type Finder func(ctx context.Context, id string) (any, error)

type entry struct {
	loader Loader

	mu     sync.Mutex
	loaded bool
	value  any
}

func (e *entry) load(ctx context.Context) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded {
		return e.value, nil
	}

	v, err := protect(ctx, e.loader)
	if err != nil {
		return nil, err
	}
	v, err = await(ctx, v)
	if err != nil {
		return nil, err
	}

	e.value = v
	e.loaded = true
	return v, nil
}

// Registry maps module identifiers to loaders. Modules found through the
// finder are cached like registered ones.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	finder  Finder
	finding singleflight.Group
}

// Option configures a Registry.
type Option interface {
	apply(*Registry)
}

type optionFunc func(*Registry)

func (f optionFunc) apply(r *Registry) { f(r) }

// WithFinder sets the loader used for identifiers without a registered loader.
func WithFinder(f Finder) Option {
	return optionFunc(func(r *Registry) {
		r.finder = f
	})
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt.apply(r)
	}
	return r
}

// Register registers a loader under an identifier. Relative identifiers are
// rejected since there is no anchor to resolve them against.
func (r *Registry) Register(id string, loader Loader) error {
	if err := security.ValidateModuleID(id); err != nil {
		return fmt.Errorf("%w: %q", err, id)
	}
	if security.IsRelative(id) {
		return fmt.Errorf("%w: %q is relative", core.ErrInvalidModuleID, id)
	}
	if loader == nil {
		return fmt.Errorf("%w: loader for %q", core.ErrNilTarget, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[filepath.Clean(id)] = &entry{loader: loader}
	return nil
}

// RegisterValue registers an already instantiated module.
func (r *Registry) RegisterValue(id string, v any) error {
	return r.Register(id, func(context.Context) (any, error) {
		return v, nil
	})
}

// Unregister removes a module. It reports whether the module was registered.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := filepath.Clean(id)
	_, ok := r.entries[key]
	delete(r.entries, key)
	return ok
}

// Has checks if a module is registered or cached under a resolved identifier.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[filepath.Clean(id)]
	return ok
}

// Resolve returns the identifier a module is registered under. Relative
// identifiers are joined onto anchor; all others are only cleaned.
func (r *Registry) Resolve(anchor, id string) string {
	return Resolve(anchor, id)
}

// Load resolves id against anchor and returns the module value, awaiting it
// if it is Deferred.
func (r *Registry) Load(ctx context.Context, anchor, id string) (any, error) {
	if err := security.ValidateModuleID(id); err != nil {
		return nil, fmt.Errorf("%w: %q", err, id)
	}

	resolved := Resolve(anchor, id)

	r.mu.RLock()
	e, ok := r.entries[resolved]
	finder := r.finder
	r.mu.RUnlock()

	if ok {
		v, err := e.load(ctx)
		if err != nil {
			return nil, fmt.Errorf("thinware: loading module %q: %w", resolved, err)
		}
		return v, nil
	}

	if finder == nil {
		return nil, fmt.Errorf("%w: %q", core.ErrModuleNotFound, resolved)
	}

	// The load is shared by every waiting request, so it must not be
	// cancelled along with the first one.
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.finding.Do(resolved, func() (any, error) {
		return r.find(shared, finder, resolved)
	})
	if err != nil {
		return nil, fmt.Errorf("thinware: loading module %q: %w", resolved, err)
	}
	return v, nil
}

// find loads a module through finder and caches it. Failures are not cached.
func (r *Registry) find(ctx context.Context, finder Finder, id string) (any, error) {
	v, err := protect(ctx, func(ctx context.Context) (any, error) {
		return finder(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	v, err = await(ctx, v)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.entries[id] = &entry{loaded: true, value: v}
	}
	r.mu.Unlock()

	if ok {
		// Registered while we were loading; the registration wins.
		return e.load(ctx)
	}
	return v, nil
}

// Resolve joins a relative identifier onto anchor. Identifiers not starting
// with "." are returned cleaned.
func Resolve(anchor, id string) string {
	if security.IsRelative(id) {
		return filepath.Join(anchor, id)
	}
	return filepath.Clean(id)
}

func await(ctx context.Context, v any) (any, error) {
	d, ok := v.(Deferred)
	if !ok {
		return v, nil
	}
	if d == nil {
		return nil, core.ErrNilTarget
	}
	return protect(ctx, d)
}

// protect calls fn, returning a panic as an error wrapping core.ErrModulePanicked.
func protect(ctx context.Context, fn func(context.Context) (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", core.ErrModulePanicked, e)
				return
			}
			err = fmt.Errorf("%w: %v", core.ErrModulePanicked, r)
		}
	}()
	return fn(ctx)
}

// Default is the process-wide registry used by the package-level functions.
var Default = NewRegistry(WithFinder(PluginFinder(DefaultPluginSymbol)))

// Register registers a loader on the Default registry.
func Register(id string, loader Loader) error {
	return Default.Register(id, loader)
}

// RegisterValue registers an instantiated module on the Default registry.
func RegisterValue(id string, v any) error {
	return Default.RegisterValue(id, v)
}

// Load loads a module from the Default registry.
func Load(ctx context.Context, anchor, id string) (any, error) {
	return Default.Load(ctx, anchor, id)
}
