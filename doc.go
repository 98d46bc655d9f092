// Package formskema provides:
//
// - Composable, immutable schema nodes (see dsl/) that validate untyped input
// (form values, query parameters, decoded JSON/YAML) into typed values
// - A stable error model via Issues (Path, code, message) that accumulates every
// failure instead of stopping at the first one
// - Result[T], the success-or-failure outcome of one validation call
// - Derivation of new object schemas (pick/omit/partial/required/merge/extend)
// without touching the originals
//
// Design policy:
// - Keep only the shared vocabulary in the root package; node kinds, the
// engine and derivations live under dsl/.
// - Place preprocess transforms under codec/, reusable refinements under
// rules/, input decoding under source/ and the CLI under cmd/formskema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Object().
//	    Field("investmentAmount", dsl.Number().Coerce().Min(1000).Max(2_000_000)).
//	    Field("stateOfResidence", dsl.Enum("AL", "AK", "AZ"))
//	res := dsl.SafeParse(ctx, s, map[string]any{"investmentAmount": "1500", "stateOfResidence": "AL"})
//	if !res.OK() {
//	    fmt.Println(res.Issues().Flatten().FieldErrors)
//	}
package formskema
