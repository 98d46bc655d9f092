package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/internal/logx"
)

const (
	envLang     = "FORMSKEMA_LANG"
	envLogLevel = "FORMSKEMA_LOG_LEVEL"
)

func newRootCmd() *cobra.Command {
	var logLevel, lang string
	root := &cobra.Command{
		Use:   "formskema",
		Short: "Validate form data against declarative schemas",
		Long: `formskema validates JSON, YAML or query-string payloads against the
built-in example schemas or against OpenAPI / CRD schemas, and prints the
output types those schemas derive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			logx.SetLevel(logx.ParseLevel(logLevel))
			i18n.SetLanguage(lang)
		},
	}
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", envOr(envLogLevel, "normal"),
		"Set the logging verbosity level: quiet, normal, verbose, debug")
	root.PersistentFlags().StringVar(&lang, "lang", envOr(envLang, "en"),
		"Language of issue messages: en, ja")
	root.AddCommand(newValidateCmd(), newTypesCmd(), newOptionsCmd())
	return root
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
