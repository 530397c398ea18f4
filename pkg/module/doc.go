// Package module provides the module system used to resolve module targets.
//
// A module is a callable (or a value that resolves to one) registered under an
// absolute identifier. Adapters load modules by identifier; identifiers that
// start with "." are joined onto the adapter's anchor directory first.
//
// Usage:
//
//	module.Register("/srv/app/handlers/users", func(ctx context.Context) (any, error) {
//	    return users.List, nil
//	})
//
//	fn, err := module.Load(ctx, "/srv/app", "./handlers/users")
//
// Each loader runs at most once per registry. A failed load is not remembered,
// so the next Load calls the loader again. Identifiers without a loader go to
// the registry's Finder; the Default registry's finder opens Go plugins
// ("*.so") and its results are cached like registered modules.
package module
