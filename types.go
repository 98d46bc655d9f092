package formskema

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys (default).
	UnknownPassthrough                      // Copy unknown keys into the result unvalidated.
	UnknownStrict                           // Reject unknown keys with an error.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownPassthrough:
		return "passthrough"
	case UnknownStrict:
		return "strict"
	default:
		return "strip"
	}
}

// undefined is the type of the absent marker.
type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks an absent value: a missing object key, or a query parameter
// that was never set. It is distinct from nil, which stands for null.
var Undefined any = undefined{}

// IsUndefined reports whether v is the absent marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}
