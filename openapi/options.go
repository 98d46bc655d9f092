package openapi

import (
	"fmt"

	formskema "github.com/reoring/formskema"
)

// Options controls import behavior.
type Options struct {
	// Coerce makes number, integer, boolean and date-time properties accept
	// their string forms, as submitted by HTML forms and query strings.
	Coerce bool
	// Unknown applies to objects that do not set additionalProperties.
	Unknown formskema.UnknownPolicy
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
