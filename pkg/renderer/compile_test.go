package renderer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine writes an executable shell script standing in for a LaTeX engine. The script's last
// argument is the .tex file name.
func fakeEngine(t *testing.T, body string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "fakelatex")
	script := "#!/bin/sh\nfor last; do :; done\nstem=\"${last%.tex}\"\n" + body + "\n"
	err := os.WriteFile(path, []byte(script), 0755)
	require.NoError(t, err)
	return path
}

func testDocument() (doc Document) {
	doc = Document{Source: "\\documentclass{letter}\n", Stem: "acme"}
	return doc
}

func TestCompileSuccess(t *testing.T) {
	engine := fakeEngine(t, `echo "This is fakeTeX"
printf '%%PDF-1.4 fake' > "$stem.pdf"`)
	workdir := t.TempDir()

	artifact, err := LatexCompiler{Engine: engine, Timeout: 10 * time.Second}.Compile(context.Background(), testDocument(), workdir)
	require.NoError(t, err)

	assert.True(t, artifact.Success)
	assert.Equal(t, "%PDF-1.4 fake", string(artifact.PDF))
	assert.Contains(t, artifact.Log, "This is fakeTeX")

	source, err := os.ReadFile(filepath.Join(workdir, "acme.tex"))
	require.NoError(t, err)
	assert.Equal(t, testDocument().Source, string(source))
}

func TestCompileFailures(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		timeout  time.Duration
		wantKind string
		wantLog  string
	}{
		{
			name:     "nonzero exit",
			script:   "echo '! Undefined control sequence.'\nexit 1",
			timeout:  10 * time.Second,
			wantKind: KindNonzeroExit,
			wantLog:  "Undefined control sequence",
		},
		{
			name:     "missing output",
			script:   "echo 'Output written nowhere'",
			timeout:  10 * time.Second,
			wantKind: KindMissingOutput,
			wantLog:  "Output written nowhere",
		},
		{
			name:     "timeout",
			script:   "exec sleep 5",
			timeout:  200 * time.Millisecond,
			wantKind: KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := fakeEngine(t, tt.script)

			artifact, err := LatexCompiler{Engine: engine, Timeout: tt.timeout}.Compile(context.Background(), testDocument(), t.TempDir())
			var cerr *CompileError
			require.True(t, errors.As(err, &cerr), "expected CompileError, got %v", err)
			assert.Equal(t, tt.wantKind, cerr.Kind)
			assert.False(t, artifact.Success)
			assert.Nil(t, artifact.PDF)
			if tt.wantLog != "" {
				assert.Contains(t, artifact.Log, tt.wantLog)
				assert.Contains(t, cerr.Log, tt.wantLog)
			}
		})
	}
}

func TestCompileEngineNotFound(t *testing.T) {
	engine := filepath.Join(t.TempDir(), "no-such-latex")

	_, err := LatexCompiler{Engine: engine}.Compile(context.Background(), testDocument(), t.TempDir())
	var cerr *CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, KindEngineNotFound, cerr.Kind)
}
