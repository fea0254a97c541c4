package shader

import (
	"errors"
	"fmt"
	"strings"
)

// CompileError reports a shader stage that could not be read or compiled.
type CompileError struct {
	Stage  Stage
	Path   string
	Log    string // compiler info log, or the read/preprocess error text
	Source string // source submitted to the compiler, empty if never read
	Err    error
}

func (e *CompileError) Error() string {
	msg := strings.TrimSpace(e.Log)
	if msg == "" {
		msg = "no compiler log"
	}
	return fmt.Sprintf("failed to compile %s shader %s: %s", e.Stage, e.Path, msg)
}

func (e *CompileError) Unwrap() error { return e.Err }

// LinkError reports a program whose stages compiled but failed to link.
type LinkError struct {
	Vertex   string
	Fragment string
	Log      string
}

func (e *LinkError) Error() string {
	msg := strings.TrimSpace(e.Log)
	if msg == "" {
		msg = "no linker log"
	}
	return fmt.Sprintf("failed to link %s and %s: %s", e.Vertex, e.Fragment, msg)
}

// Diagnostic renders err as the console text printed before the viewer
// exits: the compiler or linker log and, for compile errors, the offending
// source.
func Diagnostic(err error) string {
	var b strings.Builder
	var ce *CompileError
	var le *LinkError
	switch {
	case errors.As(err, &ce):
		b.WriteString("Failed to compile a shader!\n")
		fmt.Fprintf(&b, "[ ERROR ] %s: %s\n", ce.Path, strings.TrimRight(ce.Log, "\n"))
		if ce.Source != "" {
			b.WriteString(ce.Source)
			if !strings.HasSuffix(ce.Source, "\n") {
				b.WriteByte('\n')
			}
		}
	case errors.As(err, &le):
		b.WriteString("Failed to link shaders!\n")
		if le.Log != "" {
			fmt.Fprintf(&b, "[ ERROR ] %s\n", strings.TrimRight(le.Log, "\n"))
		}
	case err != nil:
		b.WriteString(err.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
