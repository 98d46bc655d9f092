package dsl

// OptionalSchema accepts an absent value and delegates everything else.
type OptionalSchema struct{ inner Node }

// Optional wraps n so that an absent value succeeds with formskema.Undefined.
func Optional(n Node) OptionalSchema { return OptionalSchema{inner: mustNode(n)} }

func (OptionalSchema) Kind() NodeKind { return KindOptional }
func (OptionalSchema) sealed()        {}

// Unwrap returns the wrapped node.
func (s OptionalSchema) Unwrap() Node { return s.inner }

// NullableSchema accepts nil and delegates everything else.
type NullableSchema struct{ inner Node }

// Nullable wraps n so that nil succeeds with nil.
func Nullable(n Node) NullableSchema { return NullableSchema{inner: mustNode(n)} }

func (NullableSchema) Kind() NodeKind { return KindNullable }
func (NullableSchema) sealed()        {}

// Unwrap returns the wrapped node.
func (s NullableSchema) Unwrap() Node { return s.inner }

// Nullish is Optional(Nullable(n)).
func Nullish(n Node) OptionalSchema { return Optional(Nullable(n)) }

// DefaultSchema substitutes a fallback for an absent value and validates the
// fallback through the inner node.
type DefaultSchema struct {
	inner Node
	value any
	fn    func() any
}

// Default uses v whenever the input is absent. Mutable fallbacks (maps,
// slices) are shared between calls; use DefaultFunc to produce fresh ones.
func Default(n Node, v any) DefaultSchema { return DefaultSchema{inner: mustNode(n), value: v} }

// DefaultFunc calls fn for every absent input.
func DefaultFunc(n Node, fn func() any) DefaultSchema {
	if fn == nil {
		panic("dsl: DefaultFunc requires a function")
	}
	return DefaultSchema{inner: mustNode(n), fn: fn}
}

func (DefaultSchema) Kind() NodeKind { return KindDefault }
func (DefaultSchema) sealed()        {}

// Unwrap returns the wrapped node.
func (s DefaultSchema) Unwrap() Node { return s.inner }

func (s DefaultSchema) fallback() any {
	if s.fn != nil {
		return s.fn()
	}
	return s.value
}

// PreprocessSchema transforms the raw input before delegating.
type PreprocessSchema struct {
	transform func(any) any
	inner     Node
}

// Preprocess applies transform to the raw input and validates the result with
// n. The transform should be total: inputs it does not understand are returned
// unchanged so that n reports the mismatch. A panic inside transform is not
// recovered by Parse; SafeParse converts it to an internal_error issue.
func Preprocess(transform func(any) any, n Node) PreprocessSchema {
	if transform == nil {
		panic("dsl: Preprocess requires a transform")
	}
	return PreprocessSchema{transform: transform, inner: mustNode(n)}
}

func (PreprocessSchema) Kind() NodeKind { return KindPreprocess }
func (PreprocessSchema) sealed()        {}

// Unwrap returns the wrapped node.
func (s PreprocessSchema) Unwrap() Node { return s.inner }

func mustNode(n Node) Node {
	if n == nil {
		panic("dsl: nil schema node")
	}
	return n
}
