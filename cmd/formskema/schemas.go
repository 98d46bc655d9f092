package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/examples/annuity"
	"github.com/reoring/formskema/internal/logx"
	"github.com/reoring/formskema/openapi"
)

var builtins = map[string]dsl.Node{
	"annuity":       annuity.AnnuitySchema,
	"personal-info": annuity.PersonalInfoSchema,
	"state-amount":  annuity.StateAndAmountSchema,
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for k := range builtins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// schemaFlags selects the schema a command works on.
type schemaFlags struct {
	schema  string
	crdKind string
	coerce  bool
	unknown string
}

func (f *schemaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "",
		"Built-in schema ("+strings.Join(builtinNames(), ", ")+") or an OpenAPI/JSON Schema/CRD file")
	cmd.Flags().StringVar(&f.crdKind, "crd-kind", "", "Select the CRD with this kind from a multi-document file")
	cmd.Flags().BoolVar(&f.coerce, "coerce", false, "Accept string forms of numbers, booleans and dates in imported schemas")
	cmd.Flags().StringVar(&f.unknown, "unknown", "strip", "Unknown keys in imported objects: strip, strict, passthrough")
	_ = cmd.MarkFlagRequired("schema")
}

func (f *schemaFlags) load() (dsl.Node, error) {
	if n, ok := builtins[f.schema]; ok {
		logx.Verbosef("using built-in schema %s", f.schema)
		return n, nil
	}
	policy, err := parseUnknown(f.unknown)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.schema)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	opts := openapi.Options{Coerce: f.coerce, Unknown: policy}

	var (
		n    dsl.Node
		diag openapi.Diag
	)
	switch {
	case f.crdKind != "":
		n, diag, err = openapi.ImportYAMLForCRDKind(data, f.crdKind, opts)
	case strings.EqualFold(filepath.Ext(f.schema), ".json"):
		n, diag, err = openapi.Import(data, opts)
	default:
		n, diag, err = openapi.ImportYAML(data, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", f.schema, err)
	}
	if diag != nil {
		for _, w := range diag.Warnings() {
			logx.Warnf("%s: %s", f.schema, w)
		}
	}
	logx.Debugf("imported %s: %s", f.schema, dsl.TypeOf(n))
	return n, nil
}

func parseUnknown(s string) (formskema.UnknownPolicy, error) {
	switch strings.ToLower(s) {
	case "", "strip":
		return formskema.UnknownStrip, nil
	case "strict":
		return formskema.UnknownStrict, nil
	case "passthrough":
		return formskema.UnknownPassthrough, nil
	}
	return 0, fmt.Errorf("unknown key policy %q (want strip, strict or passthrough)", s)
}
