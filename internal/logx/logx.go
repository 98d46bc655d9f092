// Package logx is the leveled console logger used by the formskema CLI.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is the verbosity of CLI output.
type Level int

const (
	// LevelQuiet suppresses everything except errors.
	LevelQuiet Level = iota
	// LevelNormal shows results and warnings.
	LevelNormal
	// LevelVerbose adds per-step detail.
	LevelVerbose
	// LevelDebug shows everything.
	LevelDebug
)

var (
	mu     sync.Mutex
	level  = LevelNormal
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ParseLevel converts a level name ("quiet", "v", ...) to a Level. Unknown
// names map to LevelNormal.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet", "q":
		return LevelQuiet
	case "verbose", "v":
		return LevelVerbose
	case "debug", "d":
		return LevelDebug
	default:
		return LevelNormal
	}
}

// SetLevel sets the process-wide level.
func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// CurrentLevel reports the process-wide level.
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// SetOutput redirects normal and error output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func emit(min Level, toErr bool, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < min {
		return
	}
	w := stdout
	if toErr {
		w = stderr
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}

// Errorf is always printed, on the error writer.
func Errorf(format string, args ...any) { emit(LevelQuiet, true, "error: ", format, args...) }

// Warnf prints at LevelNormal and above, on the error writer.
func Warnf(format string, args ...any) { emit(LevelNormal, true, "warning: ", format, args...) }

// Infof prints at LevelNormal and above.
func Infof(format string, args ...any) { emit(LevelNormal, false, "", format, args...) }

// Verbosef prints at LevelVerbose and above.
func Verbosef(format string, args ...any) { emit(LevelVerbose, false, "\t", format, args...) }

// Debugf prints at LevelDebug.
func Debugf(format string, args ...any) { emit(LevelDebug, false, "\tdebug: ", format, args...) }
