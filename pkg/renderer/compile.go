package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Compiler defaults.
const (
	DefaultEngine         = "xelatex"
	DefaultCompileTimeout = 60 * time.Second
	// waitDelay bounds how long output pipes may stay open after the engine is killed.
	waitDelay = 5 * time.Second
)

// Artifact is the result of a compilation. PDF is set only when Success is true; Log always holds
// the engine's combined output.
type Artifact struct {
	PDF     []byte
	Log     string
	Success bool
}

// Compiler turns a rendered document into a binary artifact inside workdir.
type Compiler interface {
	Compile(ctx context.Context, doc Document, workdir string) (artifact Artifact, err error)
}

// LatexCompiler runs a LaTeX engine as a subprocess.
type LatexCompiler struct {
	Engine  string
	Timeout time.Duration
}

// Compile writes <stem>.tex into workdir and runs the engine on it. Success requires a zero exit
// status and <stem>.pdf on disk. On failure the artifact still carries the log and err is a
// *CompileError.
func (c LatexCompiler) Compile(ctx context.Context, doc Document, workdir string) (artifact Artifact, err error) {
	engine := c.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultCompileTimeout
	}

	// Check the engine is installed
	var enginePath string
	enginePath, err = exec.LookPath(engine)
	if err != nil {
		err = &CompileError{Kind: KindEngineNotFound, Engine: engine, Err: err}
		return artifact, err
	}

	texName := doc.Stem + ".tex"
	err = os.WriteFile(filepath.Join(workdir, texName), []byte(doc.Source), 0644)
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s to %s", texName, workdir)
		return artifact, err
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, enginePath, "-interaction=nonstopmode", "-halt-on-error", texName)
	cmd.Dir = workdir
	cmd.WaitDelay = waitDelay

	var output []byte
	output, err = cmd.CombinedOutput()
	artifact.Log = string(output)

	if runCtx.Err() == context.DeadlineExceeded {
		err = &CompileError{Kind: KindTimeout, Engine: engine, Log: artifact.Log, Err: errors.Errorf("no result after %s", timeout)}
		return artifact, err
	}
	if err != nil {
		err = &CompileError{Kind: KindNonzeroExit, Engine: engine, Log: artifact.Log, Err: err}
		return artifact, err
	}

	var pdf []byte
	pdf, err = os.ReadFile(filepath.Join(workdir, doc.Stem+".pdf"))
	if err != nil {
		err = &CompileError{Kind: KindMissingOutput, Engine: engine, Log: artifact.Log, Err: err}
		return artifact, err
	}

	artifact.PDF = pdf
	artifact.Success = true
	return artifact, err
}
