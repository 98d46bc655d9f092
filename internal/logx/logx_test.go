package logx

import (
	"bytes"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"quiet": LevelQuiet, "Q": LevelQuiet, "v": LevelVerbose, " debug ": LevelDebug, "loud": LevelNormal}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("%q: got %d want %d", in, got, want)
		}
	}
}

func TestLevelsFilterOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	defer SetLevel(LevelNormal)

	SetLevel(LevelQuiet)
	Infof("hidden")
	Warnf("hidden")
	Errorf("boom %d", 1)
	if out.Len() != 0 || errOut.String() != "error: boom 1\n" {
		t.Fatalf("quiet: out=%q err=%q", out.String(), errOut.String())
	}

	out.Reset()
	errOut.Reset()
	SetLevel(LevelVerbose)
	Infof("a")
	Verbosef("b")
	Debugf("c")
	if out.String() != "a\n\tb\n" {
		t.Fatalf("verbose: %q", out.String())
	}
}
