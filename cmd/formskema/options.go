package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/internal/logx"
)

func newOptionsCmd() *cobra.Command {
	var (
		sf    schemaFlags
		field string
	)
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the allowed values of an enum field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := sf.load()
			if err != nil {
				return err
			}
			ft, ok := dsl.TypeOf(n).Field(field)
			if !ok {
				return fmt.Errorf("schema has no field %q", field)
			}
			if ft.Kind != dsl.TypeEnum {
				return fmt.Errorf("field %q is %s, not an enum", field, ft)
			}
			for _, v := range ft.Literals {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), v); err != nil {
					return err
				}
			}
			return nil
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVar(&field, "field", "", "Enum field to list")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logx.Verbosef("wrote %s", path)
	return nil
}
