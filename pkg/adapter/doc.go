// Package adapter turns a function, or a module identifier resolving to one,
// into an http.Handler.
//
// An Adapter is built from a core.Target and a core.Args. On every request it
// resolves the target, computes the positional arguments (statically or by
// calling a resolver with the request), invokes the target and then either
// writes the result to the response or, in chain mode, hands the outcome to a
// continuation.
//
// Usage:
//
//	// Direct write: GET /sum responds with "3"
//	r.Get("/sum", adapter.New(core.Func{Fn: add}, core.StaticArgs{Values: []any{1, 2}}).ServeHTTP)
//
//	// Chain mode: the outcome is stored in the request context for the next handler
//	r.With(adapter.Next(core.ModulePath{ID: "./users"}, core.ArgsResolver{Fn: userID}).Middleware).
//	    Get("/users/{id}", renderUser)
//
// Construction-time descriptors are never modified; each request works on its
// own copies.
package adapter
