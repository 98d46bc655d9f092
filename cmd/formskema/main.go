// Command formskema validates form payloads against built-in or imported
// schemas and prints the types derived from them.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/reoring/formskema/internal/logx"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logx.Warnf("loading .env: %v", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}
}
