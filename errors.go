package formskema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeNotInteger    = "not_integer"
	CodeNotFinite     = "not_finite"
	CodeNotMultipleOf = "not_multiple_of"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidEnum   = "invalid_enum"
	// Refinements (cross-field or custom checks)
	CodeCustom    = "custom"
	CodeForbidden = "forbidden"
	CodeMismatch  = "mismatch"
	CodeOrder     = "invalid_order"
	CodeDuplicate = "duplicate"
	// A refinement needed a service that the context did not carry.
	CodeDependencyUnavailable = "dependency_unavailable"
	// A transform or refinement panicked and SafeParse recovered it.
	CodeInternal = "internal_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    Path   // Empty for root-level issues.
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"min":1000, "got":999})
	// for i18n and form rendering.
	Params map[string]any
	// Fatal marks a refinement issue that stops later refinements on the same
	// node.
	Fatal bool
	Cause error // Optional: underlying error.
}

// Pointer renders the issue path as a JSON Pointer.
func (i Issue) Pointer() string { return i.Path.Pointer() }

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_small at /investmentAmount
		fmt.Fprintf(b, "%s at %s", it.Code, displayPointer(it.Path))
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Rebase returns a copy of the issues with prefix prepended to every path.
func (iss Issues) Rebase(prefix Path) Issues {
	if len(iss) == 0 {
		return nil
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = prefix.Concat(it.Path)
		out[i] = it
	}
	return out
}

// HasFatal reports whether any issue is marked fatal.
func (iss Issues) HasFatal() bool {
	for _, it := range iss {
		if it.Fatal {
			return true
		}
	}
	return false
}

// FlatIssues splits issues into root-level messages and per-field messages
// keyed by the dotted field path ("jointBirthdate", "items[2].sku").
type FlatIssues struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// Flatten groups issue messages the way form state managers display them.
func (iss Issues) Flatten() FlatIssues {
	out := FlatIssues{FormErrors: []string{}, FieldErrors: map[string][]string{}}
	for _, it := range iss {
		if len(it.Path) == 0 {
			out.FormErrors = append(out.FormErrors, it.Message)
			continue
		}
		k := it.Path.String()
		out.FieldErrors[k] = append(out.FieldErrors[k], it.Message)
	}
	return out
}

// FieldErrors returns the first message per field, with sorted keys available
// through the second return value for deterministic rendering.
func (iss Issues) FieldErrors() (map[string]string, []string) {
	m := map[string]string{}
	for _, it := range iss {
		k := it.Path.String()
		if _, seen := m[k]; !seen {
			m[k] = it.Message
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return m, keys
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// displayPointer is Pointer with the root spelled out for human-readable output.
func displayPointer(p Path) string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.Pointer()
}
