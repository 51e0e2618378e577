package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/covergen/pkg/config"
)

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 10))
	assert.Equal(t, "line3\n", tail("line1\nline2\nline3\n", 8))
	assert.Equal(t, "xyz", tail("abcxyz", 3))
}

func TestMaskedConfig(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAIAPIKey = "sk-1234567890"
	cfg.AnthropicAPIKey = ""

	out := maskedConfig(cfg)
	assert.Equal(t, "****7890", out.OpenAIAPIKey)
	assert.Empty(t, out.AnthropicAPIKey)
	// The original is untouched.
	assert.Equal(t, "sk-1234567890", cfg.OpenAIAPIKey)
}

func TestBuildOverridesCompanyPrecedence(t *testing.T) {
	t.Cleanup(func() {
		company = ""
		recipientCompany = ""
	})

	recipientCompany = "Globex"
	assert.Equal(t, "Globex", buildOverrides().Company)

	company = "Acme"
	assert.Equal(t, "Acme", buildOverrides().Company)
}

func TestGenerateWithoutSenderExitsWithUsageCode(t *testing.T) {
	for _, name := range []string{"DEFAULT_SENDER_NAME", "LLM_PROVIDER", "LLM_MODEL", "OUTPUT_DIR"} {
		t.Setenv(name, "")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("provider: openai\noutput_dir: "+t.TempDir()+"\n"), 0600)
	require.NoError(t, err)

	configFile = path
	t.Cleanup(func() { configFile = "" })

	err = runGenerate(generateCmd, []string{"job.txt"})
	var ee *exitError
	require.True(t, errors.As(err, &ee), "expected exitError, got %v", err)
	assert.Equal(t, exitUsage, ee.code)
	assert.True(t, strings.Contains(ee.Error(), "sender"))
}

func TestGenerateWithoutSenderAddressExitsWithUsageCode(t *testing.T) {
	for _, name := range []string{"DEFAULT_SENDER_NAME", "DEFAULT_SENDER_ADDRESS", "LLM_PROVIDER", "LLM_MODEL", "OUTPUT_DIR"} {
		t.Setenv(name, "")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "provider: openai\noutput_dir: " + t.TempDir() + "\nsender:\n  name: Jane Doe\n  address:\n    - \"  \"\n"
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)

	configFile = path
	t.Cleanup(func() { configFile = "" })

	err = runGenerate(generateCmd, []string{"job.txt"})
	var ee *exitError
	require.True(t, errors.As(err, &ee), "expected exitError, got %v", err)
	assert.Equal(t, exitUsage, ee.code)
	assert.True(t, strings.Contains(ee.Error(), "sender address"))
}
