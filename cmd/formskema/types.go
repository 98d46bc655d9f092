package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/internal/gen"
)

type typesOptions struct {
	schemaFlags
	goOut   bool
	pkg     string
	name    string
	outFile string
}

func newTypesCmd() *cobra.Command {
	var o typesOptions
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Print the output type a schema derives",
		Long: `Print the derived output type as a TypeScript-like declaration, or with
--go as Go struct declarations that bind to the schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := o.load()
			if err != nil {
				return err
			}
			t := dsl.TypeOf(n)
			if !o.goOut {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return err
			}
			src, err := gen.RenderFile(gen.File{Package: o.pkg, Decls: []gen.Decl{{Name: o.name, Type: t}}})
			if err != nil {
				return err
			}
			if o.outFile != "" {
				return writeFile(o.outFile, src)
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
	o.bind(cmd)
	cmd.Flags().BoolVar(&o.goOut, "go", false, "Render Go declarations instead of a type expression")
	cmd.Flags().StringVar(&o.pkg, "package", "model", "Package name for --go")
	cmd.Flags().StringVar(&o.name, "name", "Form", "Top-level type name for --go")
	cmd.Flags().StringVarP(&o.outFile, "output", "o", "", "Write --go output to this file")
	return cmd
}
