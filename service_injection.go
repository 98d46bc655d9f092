package formskema

import (
	"context"

	"github.com/reoring/formskema/i18n"
)

// serviceKey is a unique context key per service type T.
type serviceKey[T any] struct{}

// WithService stores a service (a lookup table, a repository client) in ctx
// for refinements that need one.
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, svc)
}

// Service retrieves the service of type T from ctx.
func Service[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(serviceKey[T]{}).(T)
	return v, ok
}

// RequireService returns the service of type T, or Issues with a single
// dependency_unavailable issue when ctx carries none. Refinements can return
// those issues directly.
func RequireService[T any](ctx context.Context) (T, Issues) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, Issues{{Code: CodeDependencyUnavailable, Message: i18n.T(CodeDependencyUnavailable, nil)}}
}
