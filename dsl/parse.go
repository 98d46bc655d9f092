package dsl

import (
	"context"
	"fmt"
	"runtime/debug"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// HostFault wraps a panic raised by a Preprocess transform or a refinement and
// recovered by SafeParse. It is carried as the Cause of the internal_error
// issue.
type HostFault struct {
	Value any
	Stack []byte
}

func (f *HostFault) Error() string { return fmt.Sprintf("dsl: host fault: %v", f.Value) }

// Unwrap exposes a panicked error value to errors.Is/As.
func (f *HostFault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// SafeParse validates v against n and never panics. Validation failures and
// host faults both come back as a Failure.
func SafeParse(ctx context.Context, n Node, v any) (res formskema.Result[any]) {
	defer func() {
		if r := recover(); r != nil {
			fault := &HostFault{Value: r, Stack: debug.Stack()}
			res = formskema.Failure[any](formskema.Issues{{
				Code:    formskema.CodeInternal,
				Message: i18n.T(formskema.CodeInternal, nil),
				Cause:   fault,
			}})
		}
	}()
	out, iss := validate(ctx, n, v, nil)
	if len(iss) > 0 {
		return formskema.Failure[any](iss)
	}
	return formskema.Success(out)
}

// Parse validates v against n. Validation failures are returned as
// formskema.Issues; panics raised by transforms or refinements propagate to
// the caller.
func Parse(ctx context.Context, n Node, v any) (any, error) {
	out, iss := validate(ctx, n, v, nil)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Is reports whether v conforms to n (host faults count as non-conforming).
func Is(ctx context.Context, n Node, v any) bool {
	return SafeParse(ctx, n, v).OK()
}

// untypedSchema adapts a Node to formskema.Schema[any].
type untypedSchema struct{ node Node }

// AsSchema exposes n through the typed Schema interface with T = any.
func AsSchema(n Node) formskema.Schema[any] { return untypedSchema{node: mustNode(n)} }

func (s untypedSchema) Parse(ctx context.Context, v any) (any, error) { return Parse(ctx, s.node, v) }
func (s untypedSchema) SafeParse(ctx context.Context, v any) formskema.Result[any] {
	return SafeParse(ctx, s.node, v)
}
