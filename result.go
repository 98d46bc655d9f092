package formskema

import "github.com/reoring/formskema/i18n"

// Result is the outcome of one validation call: a typed value or a non-empty
// list of issues, never both.
type Result[T any] struct {
	value  T
	issues Issues
	ok     bool
}

// Success wraps a validated value.
func Success[T any](v T) Result[T] { return Result[T]{value: v, ok: true} }

// Failure wraps validation issues. An empty list is replaced by a single
// internal_error issue so that a Failure is never silent.
func Failure[T any](iss Issues) Result[T] {
	if len(iss) == 0 {
		iss = Issues{{Code: CodeInternal, Message: i18n.T(CodeInternal, nil)}}
	}
	return Result[T]{issues: iss}
}

// OK reports success.
func (r Result[T]) OK() bool { return r.ok }

// Value returns the typed value and whether the result is a success.
func (r Result[T]) Value() (T, bool) { return r.value, r.ok }

// Issues returns the failure issues (nil on success).
func (r Result[T]) Issues() Issues { return r.issues }

// Err returns the issues as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	return r.issues
}

// Unwrap returns the classic (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.value, nil
	}
	var zero T
	return zero, r.issues
}

// MapResult converts the success value of r with f; failures pass through.
func MapResult[A, B any](r Result[A], f func(A) B) Result[B] {
	if !r.ok {
		return Result[B]{issues: r.issues}
	}
	return Success(f(r.value))
}

// ResultOf builds a Result from a (value, error) pair. Non-Issues errors become
// a single internal_error issue carrying the error as Cause.
func ResultOf[T any](v T, err error) Result[T] {
	if err == nil {
		return Success(v)
	}
	if iss, ok := AsIssues(err); ok {
		return Failure[T](iss)
	}
	return Failure[T](Issues{{Code: CodeInternal, Message: err.Error(), Cause: err}})
}
