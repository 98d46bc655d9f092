package formskema

import "context"

// Schema is the typed entry point surfaced to callers such as form handlers
// and HTTP middleware.
type Schema[T any] interface {
	// Parse validates v and returns the typed value. Validation failures are
	// returned as Issues; panics raised by transforms or refinements propagate.
	Parse(ctx context.Context, v any) (T, error)
	// SafeParse never panics: host faults become a single internal_error issue.
	SafeParse(ctx context.Context, v any) Result[T]
}

// SafeParse is a convenience wrapper over Schema.SafeParse.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) Result[T] {
	return s.SafeParse(ctx, v)
}

// Is returns true if v conforms to the schema s.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.SafeParse(ctx, v).OK()
}
