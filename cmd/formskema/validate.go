package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/internal/logx"
	"github.com/reoring/formskema/query"
	"github.com/reoring/formskema/source"
)

type validateOptions struct {
	schemaFlags
	format     string
	print      bool
	duplicates bool
	jobs       int
}

// fileOutcome is the result of reading and validating one input. readIssues
// is set when the input could not be decoded.
type fileOutcome struct {
	docs       int
	readIssues formskema.Issues
	results    []formskema.Result[any]
}

func newValidateCmd() *cobra.Command {
	var o validateOptions
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate payloads against a schema",
		Long: `Validate JSON, YAML or query-string payloads. Files are read in order;
"-" or no file reads standard input. Every YAML document is validated
separately. The command fails when any payload has issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, o, args)
		},
	}
	o.bind(cmd)
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "Payload format: json, yaml, query (default: by file extension, json for stdin)")
	cmd.Flags().BoolVarP(&o.print, "print", "p", false, "Print the parsed value of valid payloads as JSON")
	cmd.Flags().BoolVar(&o.duplicates, "allow-duplicate-keys", false, "Let later duplicate keys win instead of reporting them")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "Number of files validated concurrently")
	return cmd
}

func runValidate(cmd *cobra.Command, o validateOptions, args []string) error {
	n, err := o.load()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	var srcOpts []source.Option
	if o.duplicates {
		srcOpts = append(srcOpts, source.AllowDuplicateKeys())
	}

	outcomes, err := validateFiles(cmd, n, o, args, srcOpts)
	if err != nil {
		return err
	}

	// Report in argument order regardless of completion order.
	total, failed := 0, 0
	for i, name := range args {
		out := outcomes[i]
		if out.readIssues != nil {
			total++
			failed++
			reportIssues(name, out.readIssues)
			continue
		}
		for j, r := range out.results {
			total++
			label := name
			if out.docs > 1 {
				label = fmt.Sprintf("%s#%d", name, j)
			}
			if !r.OK() {
				failed++
				reportIssues(label, r.Issues())
				continue
			}
			logx.Infof("%s: ok", label)
			if o.print {
				v, _ := r.Value()
				if err := printJSON(cmd.OutOrStdout(), v); err != nil {
					return err
				}
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d payload(s) invalid", failed, total)
	}
	logx.Verbosef("%d payload(s) valid", total)
	return nil
}

func validateFiles(cmd *cobra.Command, n dsl.Node, o validateOptions, args []string, srcOpts []source.Option) ([]fileOutcome, error) {
	jobs := o.jobs
	if jobs < 1 {
		jobs = 1
	}
	// stdin is read once; every "-" argument sees the same payload.
	var stdin []byte
	if slices.Contains(args, "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading -: %w", err)
		}
		stdin = b
	}
	outcomes := make([]fileOutcome, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, name := range args {
		g.Go(func() error {
			docs, err := readPayloads(bytes.NewReader(stdin), name, o.format, srcOpts)
			if iss, ok := formskema.AsIssues(err); ok {
				outcomes[i].readIssues = iss
				return nil
			}
			if err != nil {
				return err
			}
			results := make([]formskema.Result[any], len(docs))
			for j, doc := range docs {
				results[j] = dsl.SafeParse(ctx, n, doc)
			}
			outcomes[i] = fileOutcome{docs: len(docs), results: results}
			logx.Debugf("%s: %d document(s) checked", name, len(docs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func reportIssues(label string, iss formskema.Issues) {
	logx.Infof("%s: %d issue(s)", label, len(iss))
	for _, it := range iss {
		ptr := it.Pointer()
		if ptr == "" {
			ptr = "(root)"
		}
		logx.Infof("  %s: %s (%s)", ptr, it.Message, it.Code)
		if it.Cause != nil {
			logx.Debugf("cause: %v", it.Cause)
		}
	}
}

func readPayloads(stdin io.Reader, name, format string, opts []source.Option) ([]any, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if format == "" {
		format = formatOf(name)
	}
	logx.Debugf("reading %s as %s (%d bytes)", name, format, len(data))

	switch format {
	case "json":
		v, err := source.JSON(data, opts...)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	case "yaml", "yml":
		return source.YAMLDocuments(data, opts...)
	case "query":
		p, err := query.Parse(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return []any{source.Values(p.Values())}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".query", ".qs":
		return "query"
	}
	return "json"
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
