package dsl

import (
	"context"
	"fmt"

	formskema "github.com/reoring/formskema"
)

// validate drives node n against the raw input at path. It is the single
// dispatch point over the sealed node kinds; issues are accumulated, never
// raised. Panics from Preprocess transforms and refinements pass through.
func validate(ctx context.Context, n Node, in any, path formskema.Path) (any, formskema.Issues) {
	switch s := n.(type) {
	case StringSchema:
		return s.validate(in, path)
	case NumberSchema:
		return s.validate(in, path)
	case BoolSchema:
		return s.validate(in, path)
	case DateSchema:
		return s.validate(in, path)
	case EnumSchema:
		return s.validate(in, path)
	case OptionalSchema:
		if formskema.IsUndefined(in) {
			return formskema.Undefined, nil
		}
		return validate(ctx, s.inner, in, path)
	case NullableSchema:
		if in == nil {
			return nil, nil
		}
		return validate(ctx, s.inner, in, path)
	case DefaultSchema:
		if formskema.IsUndefined(in) {
			in = s.fallback()
		}
		return validate(ctx, s.inner, in, path)
	case PreprocessSchema:
		return validate(ctx, s.inner, s.transform(in), path)
	case ObjectSchema:
		return s.validate(ctx, in, path)
	case ArraySchema:
		return s.validate(ctx, in, path)
	case RefinedSchema:
		return s.validate(ctx, in, path)
	default:
		panic(fmt.Sprintf("dsl: unsupported schema node %T", n))
	}
}
