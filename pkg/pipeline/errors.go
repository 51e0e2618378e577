package pipeline

import "fmt"

// Stage names reported in StageError and log lines.
const (
	StageFetch       = "fetch"
	StageSnapshot    = "snapshot"
	StageLoadCV      = "load_cv"
	StageBuildPrompt = "build_prompt"
	StageComplete    = "complete"
	StageRender      = "render"
	StageCompile     = "compile"
	StagePersist     = "persist"
)

// StageError annotates a failure with the pipeline stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() (msg string) {
	msg = fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
	return msg
}

func (e *StageError) Unwrap() (err error) {
	err = e.Err
	return err
}
