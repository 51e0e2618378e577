package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikogura/covergen/pkg/jd"
)

func TestBuildRequestPromptLayout(t *testing.T) {
	job := jd.Posting{Text: "Company: Acme\nWe need a Go engineer.", Kind: jd.SourceFile, Source: "job.txt", Company: "Acme"}
	cvText := "Jane Doe\nGo since 2012"

	req := BuildRequest(job, cvText, Overrides{Role: "Staff Engineer", ExtraInstructions: "Mention open source."}, Defaults{SenderName: "Jane Doe"})

	// Inputs appear verbatim.
	assert.Contains(t, req.Prompt, cvText)
	assert.Contains(t, req.Prompt, job.Text)

	// Fixed order: preamble, CV, job, context, instructions.
	order := []string{
		"LaTeX body fragment",
		"CANDIDATE CV:\n" + cvText,
		"JOB DESCRIPTION:\n" + job.Text,
		"Target role: Staff Engineer",
		"Company: Acme\nDesired tone: professional",
		"INSTRUCTIONS:",
		"Additional guidance: Mention open source.",
	}
	last := -1
	for _, part := range order {
		idx := strings.Index(req.Prompt, part)
		require.NotEqual(t, -1, idx, "prompt is missing %q", part)
		assert.Greater(t, idx, last, "%q is out of order", part)
		last = idx
	}
}

func TestBuildRequestIsPure(t *testing.T) {
	job := jd.Posting{Text: "text", Source: "https://example.com/jobs/42", Kind: jd.SourceURL}
	o := Overrides{Tone: "warm"}
	d := Defaults{SenderName: "Jane", SenderAddress: []string{"1 Loop Road"}}

	first := BuildRequest(job, "cv", o, d)
	second := BuildRequest(job, "cv", o, d)
	assert.Equal(t, first, second)
	assert.Equal(t, "42", first.OutputStem)
}

func TestBuildRequestDoesNotTruncate(t *testing.T) {
	huge := strings.Repeat("experience ", 200000)
	req := BuildRequest(jd.Posting{Text: huge}, huge, Overrides{}, Defaults{})
	assert.Equal(t, 2, strings.Count(req.Prompt, huge))
}

func TestResolutionPrecedence(t *testing.T) {
	job := jd.Posting{Company: "Derived Co", Recipient: "Derived Person", Source: "job.txt"}
	defaults := Defaults{
		Tone:          "config tone",
		Opening:       "Config opening",
		Closing:       "Config closing",
		SenderName:    "Config Sender",
		SenderAddress: []string{"Config Street"},
		RecipientName: "Config Person",
		Company:       "Config Co",
	}

	tests := []struct {
		name          string
		job           jd.Posting
		overrides     Overrides
		defaults      Defaults
		wantCompany   string
		wantRecipient string
		wantTone      string
	}{
		{
			name:          "override wins",
			job:           job,
			overrides:     Overrides{Company: "Override Co", RecipientName: "Override Person", Tone: "bold"},
			defaults:      defaults,
			wantCompany:   "Override Co",
			wantRecipient: "Override Person",
			wantTone:      "bold",
		},
		{
			name:          "derived beats config",
			job:           job,
			defaults:      defaults,
			wantCompany:   "Derived Co",
			wantRecipient: "Derived Person",
			wantTone:      "config tone",
		},
		{
			name:          "config beats fallback",
			job:           jd.Posting{Source: "job.txt"},
			defaults:      defaults,
			wantCompany:   "Config Co",
			wantRecipient: "Config Person",
			wantTone:      "config tone",
		},
		{
			name:          "hard fallbacks",
			job:           jd.Posting{Source: "job.txt"},
			overrides:     Overrides{Company: "   ", RecipientName: "\t"},
			wantCompany:   FallbackCompany,
			wantRecipient: FallbackRecipient,
			wantTone:      FallbackTone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildRequest(tt.job, "cv", tt.overrides, tt.defaults)
			assert.Equal(t, tt.wantCompany, req.Company)
			assert.Equal(t, tt.wantRecipient, req.RecipientName)
			assert.Equal(t, tt.wantTone, req.Tone)
			assert.NotEmpty(t, req.Company)
			assert.NotEmpty(t, req.RecipientName)
		})
	}
}

func TestResolveOpeningClosing(t *testing.T) {
	assert.Equal(t, FallbackOpening, resolveOpening(Overrides{}, Defaults{}))
	assert.Equal(t, "Hello", resolveOpening(Overrides{Opening: " Hello "}, Defaults{Opening: "Hi"}))
	assert.Equal(t, FallbackClosing, resolveClosing(Overrides{}, Defaults{}))
	assert.Equal(t, "Best,", resolveClosing(Overrides{}, Defaults{Closing: "Best,"}))
}

func TestResolveSenderNameHasNoFallback(t *testing.T) {
	assert.Empty(t, resolveSenderName(Overrides{}, Defaults{}))
	assert.Equal(t, "Jane", resolveSenderName(Overrides{}, Defaults{SenderName: "Jane"}))
}

func TestResolveLines(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, resolveLines([]string{" A ", "", "B"}, []string{"C"}))
	assert.Equal(t, []string{"C"}, resolveLines([]string{"  "}, []string{"C"}))
	assert.Equal(t, []string{}, resolveLines(nil, nil))
}

func TestResolveStem(t *testing.T) {
	job := jd.Posting{Source: "/tmp/acme.txt"}
	assert.Equal(t, "acme", ResolveStem(Overrides{}, job))
	assert.Equal(t, "my-letter", ResolveStem(Overrides{OutputStem: "My Letter!"}, job))
	assert.Equal(t, "acme", ResolveStem(Overrides{OutputStem: "!!!"}, job))
}
