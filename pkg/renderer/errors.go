package renderer

import "fmt"

// RenderError kinds.
const (
	KindMissingField = "missing_field"
	KindTemplate     = "template"
)

// RenderError reports a document that could not be rendered.
type RenderError struct {
	Kind    string
	Field   string
	Message string
	Err     error
}

func (e *RenderError) Error() (msg string) {
	switch {
	case e.Kind == KindMissingField:
		msg = fmt.Sprintf("render error: missing required field %q", e.Field)
	case e.Err != nil:
		msg = fmt.Sprintf("render error: %s: %v", e.Message, e.Err)
	default:
		msg = fmt.Sprintf("render error: %s", e.Message)
	}
	return msg
}

func (e *RenderError) Unwrap() (err error) {
	err = e.Err
	return err
}

// CompileError kinds.
const (
	KindNonzeroExit    = "nonzero_exit"
	KindTimeout        = "timeout"
	KindMissingOutput  = "missing_output"
	KindEngineNotFound = "engine_not_found"
)

// CompileError reports a failed document compilation. Log holds the engine output.
type CompileError struct {
	Kind   string
	Engine string
	Log    string
	Err    error
}

func (e *CompileError) Error() (msg string) {
	switch e.Kind {
	case KindEngineNotFound:
		msg = fmt.Sprintf("LaTeX engine %q not found (install it or set latex_engine)", e.Engine)
	case KindTimeout:
		msg = fmt.Sprintf("%s timed out", e.Engine)
	case KindMissingOutput:
		msg = fmt.Sprintf("%s exited cleanly but produced no PDF", e.Engine)
	default:
		msg = fmt.Sprintf("%s failed", e.Engine)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CompileError) Unwrap() (err error) {
	err = e.Err
	return err
}
