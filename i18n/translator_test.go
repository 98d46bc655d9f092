package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("too_small", map[string]string{"min": "1000"}); msg != "must be greater than or equal to 1000" {
		t.Fatalf("unexpected english message: %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "required" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
}

type fixedTranslator struct{}

func (fixedTranslator) Message(code string, _ map[string]string) string { return "x:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(fixedTranslator{})
	if msg := T("required", nil); msg != "x:required" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	SetTranslator(nil)
	if msg := T("required", nil); msg != "Required" {
		t.Fatalf("nil should restore english: %q", msg)
	}
}

func TestInterpolate_LeavesUnknownPlaceholders(t *testing.T) {
	got := Interpolate("{a} and {b}", map[string]string{"a": "1"})
	if got != "1 and {b}" {
		t.Fatalf("got %q", got)
	}
}
