package dsl

import (
	"context"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// RefineFunc inspects an already-validated value and returns issues with paths
// relative to the refined node. It must not retain or mutate v.
type RefineFunc func(ctx context.Context, v any) formskema.Issues

type refinement struct {
	name  string
	fn    RefineFunc
	fatal bool
}

// RefinedSchema runs a chain of refinements after its inner node succeeded.
type RefinedSchema struct {
	inner       Node
	refinements []refinement
}

func (RefinedSchema) Kind() NodeKind { return KindRefined }
func (RefinedSchema) sealed()        {}

// Unwrap returns the node the refinements apply to.
func (s RefinedSchema) Unwrap() Node { return s.inner }

// Names lists refinement names in execution order.
func (s RefinedSchema) Names() []string {
	out := make([]string, len(s.refinements))
	for i, r := range s.refinements {
		out[i] = r.name
	}
	return out
}

// RefineOption configures a refinement.
type RefineOption func(*refineConfig)

type refineConfig struct {
	name  string
	path  formskema.Path
	fatal bool
	code  string
}

// Fatal stops later refinements in the chain when this one reports issues.
func Fatal() RefineOption { return func(c *refineConfig) { c.fatal = true } }

// At places a predicate refinement's issue under the given relative field path.
func At(keys ...string) RefineOption {
	return func(c *refineConfig) { c.path = formskema.PathOf(keys...) }
}

// Named labels the refinement (surfaced as Params["rule"]).
func Named(name string) RefineOption { return func(c *refineConfig) { c.name = name } }

// WithCode overrides the issue code of a predicate refinement (default custom).
func WithCode(code string) RefineOption { return func(c *refineConfig) { c.code = code } }

func newRefineConfig(opts []RefineOption) refineConfig {
	cfg := refineConfig{code: formskema.CodeCustom}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Refine adds a predicate check to n. When pred returns false a single issue
// with msg is reported at the refined node (or at the At path).
func Refine(n Node, pred func(v any) bool, msg string, opts ...RefineOption) RefinedSchema {
	if pred == nil {
		panic("dsl: Refine requires a predicate")
	}
	cfg := newRefineConfig(opts)
	fn := func(_ context.Context, v any) formskema.Issues {
		if pred(v) {
			return nil
		}
		it := formskema.Issue{Path: cfg.path, Code: cfg.code, Message: msg}
		if cfg.name != "" {
			it.Params = map[string]any{"rule": cfg.name}
		}
		return formskema.Issues{it}
	}
	return chain(n, refinement{name: cfg.name, fn: fn, fatal: cfg.fatal})
}

// SuperRefine adds a check that may report any number of issues, each with
// its own relative path and Fatal flag.
func SuperRefine(n Node, fn RefineFunc, opts ...RefineOption) RefinedSchema {
	if fn == nil {
		panic("dsl: SuperRefine requires a function")
	}
	cfg := newRefineConfig(opts)
	return chain(n, refinement{name: cfg.name, fn: fn, fatal: cfg.fatal})
}

// chain appends to an existing refinement chain instead of nesting, so
// refinements on the same node run in order against the same value.
func chain(n Node, r refinement) RefinedSchema {
	n = mustNode(n)
	if rs, ok := n.(RefinedSchema); ok {
		out := make([]refinement, len(rs.refinements), len(rs.refinements)+1)
		copy(out, rs.refinements)
		return RefinedSchema{inner: rs.inner, refinements: append(out, r)}
	}
	return RefinedSchema{inner: n, refinements: []refinement{r}}
}

func (s RefinedSchema) validate(ctx context.Context, in any, path formskema.Path) (any, formskema.Issues) {
	v, iss := validate(ctx, s.inner, in, path)
	if len(iss) > 0 {
		return nil, iss
	}
	var out formskema.Issues
	for _, r := range s.refinements {
		got := r.fn(ctx, v)
		if len(got) == 0 {
			continue
		}
		got = normalizeRefineIssues(got, r.name).Rebase(path)
		out = formskema.AppendIssues(out, got...)
		if r.fatal || got.HasFatal() {
			break
		}
	}
	if len(out) > 0 {
		return nil, out
	}
	return v, nil
}

func normalizeRefineIssues(iss formskema.Issues, name string) formskema.Issues {
	out := make(formskema.Issues, len(iss))
	for i, it := range iss {
		if it.Code == "" {
			it.Code = formskema.CodeCustom
		}
		if it.Message == "" {
			it.Message = i18n.T(it.Code, stringParams(it.Params))
		}
		if name != "" {
			if _, has := it.Params["rule"]; !has {
				p := make(map[string]any, len(it.Params)+1)
				for k, v := range it.Params {
					p[k] = v
				}
				p["rule"] = name
				it.Params = p
			}
		}
		out[i] = it
	}
	return out
}
