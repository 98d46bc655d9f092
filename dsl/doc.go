// Package dsl declares form schemas and validates raw input against them.
//
// Overview
//   - Nodes: String/Number/Bool/Date primitives, Enum, Object, Array and the
//     Optional/Nullable/Default/Preprocess wrappers. Node is sealed; every
//     builder call returns a new value.
//   - Engine: SafeParse/Parse/Is walk a node and the input together and pool
//     every issue they find. Object fields run in declaration order.
//   - Refinements: Refine/SuperRefine run cross-field checks after the inner
//     node succeeded. Chained refinements run in order; Fatal stops the chain.
//   - Derivations: Pick/Omit/Partial/Required/Merge/Extend build new objects
//     from existing ones. Unknown field names are construction errors.
//   - Types: TypeOf derives the output type; Bind[T] checks a Go type against
//     it and decodes successful values into T.
//
// Quickstart
//
//	personal := dsl.Object().
//		Field("investmentAmount", dsl.Number().Coerce().Min(1000).Max(2_000_000)).
//		Field("gender", dsl.Enum("male", "female")).
//		Field("jointGender", dsl.Optional(dsl.Enum("male", "female")))
//
//	r := dsl.SafeParse(ctx, personal, map[string]any{"investmentAmount": "999"})
//	for _, it := range r.Issues() {
//		fmt.Println(it.Pointer(), it.Code) // /investmentAmount too_small, /gender required
//	}
//
//	type Personal struct {
//		InvestmentAmount float64 `json:"investmentAmount"`
//		Gender           string  `json:"gender"`
//		JointGender      *string `json:"jointGender"`
//	}
//	form := dsl.MustBind[Personal](personal)
//	p, err := form.Parse(ctx, raw)
//
// Absence and null
//
// A key missing from an object is passed to its field node as
// formskema.Undefined; nil is null. Optional accepts Undefined, Nullable
// accepts nil, Default replaces Undefined with its fallback. Successful
// records omit absent optional keys.
//
// Host faults
//
// Panics raised by Preprocess transforms or refinement functions propagate
// through Parse. SafeParse recovers them into a single internal_error issue
// whose Cause is a *HostFault.
package dsl
