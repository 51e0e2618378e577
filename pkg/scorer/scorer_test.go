package scorer

import (
	"testing"
)

const testCV = "Led a team of 12 engineers at Initech from 2019 to 2023.\nCut deploy time by 40%.\nManaged a $1,500,000 budget."

const testJob = "Acme is hiring a Staff Engineer with 8+ years of Go."

func TestScoreCleanBody(t *testing.T) {
	scorer := NewScorer()
	report := scorer.Score(Input{
		Body:    "At Initech I led 12 engineers and cut deploy time by 40\\%.\n\nI would bring 8 years of Go to Acme.",
		CVText:  testCV,
		JobText: testJob,
		Company: "Acme",
	})

	if report.Score != 100 {
		t.Errorf("Expected score 100, got %d (violations: %v)", report.Score, report.Violations)
	}
	if !report.Passed() {
		t.Error("Expected clean body to pass")
	}
}

func TestScoreViolations(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		company   string
		wantRule  string
		wantScore int
		wantPass  bool
	}{
		{
			name:      "fabricated metric",
			body:      "I grew revenue by 300\\% at Acme.",
			company:   "Acme",
			wantRule:  RuleMetricFabrication,
			wantScore: 70,
			wantPass:  false,
		},
		{
			name:      "thousands separators normalised",
			body:      "I managed a $1500000 budget and want to join Acme.",
			company:   "Acme",
			wantScore: 100,
			wantPass:  true,
		},
		{
			name:      "placeholder left in",
			body:      "I am excited to join [Company Name].",
			company:   "",
			wantRule:  RulePlaceholderText,
			wantScore: 80,
			wantPass:  true,
		},
		{
			name:      "markdown emphasis",
			body:      "I am **excited** to join Acme.",
			company:   "Acme",
			wantRule:  RuleMarkdownFormatting,
			wantScore: 95,
			wantPass:  true,
		},
		{
			name:      "company never named",
			body:      "I am excited to apply.",
			company:   "Acme",
			wantRule:  RuleCompanyNotNamed,
			wantScore: 95,
			wantPass:  true,
		},
		{
			name:      "units are not figures",
			body:      "I would love to join Acme.\\vspace{2em}",
			company:   "Acme",
			wantScore: 100,
			wantPass:  true,
		},
	}

	scorer := NewScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := scorer.Score(Input{Body: tt.body, CVText: testCV, JobText: testJob, Company: tt.company})

			if report.Score != tt.wantScore {
				t.Errorf("Expected score %d, got %d (violations: %v)", tt.wantScore, report.Score, report.Violations)
			}
			if report.Passed() != tt.wantPass {
				t.Errorf("Expected Passed() = %v", tt.wantPass)
			}
			if tt.wantRule == "" {
				if len(report.Violations) != 0 {
					t.Errorf("Expected no violations, got %v", report.Violations)
				}
				return
			}
			if len(report.Violations) == 0 || report.Violations[0].Rule != tt.wantRule {
				t.Errorf("Expected first violation %s, got %v", tt.wantRule, report.Violations)
			}
		})
	}
}

func TestScoreDeductsEachRuleOnce(t *testing.T) {
	scorer := NewScorer()
	report := scorer.Score(Input{
		Body:    "Acme: I shipped 77 services, 88 pipelines and 99 dashboards.",
		CVText:  testCV,
		Company: "Acme",
	})

	if len(report.Violations) != 3 {
		t.Fatalf("Expected 3 violations, got %d", len(report.Violations))
	}
	if report.Score != 70 {
		t.Errorf("Expected score 70, got %d", report.Score)
	}
	if report.Violations[0].Detail != `"77" is not in the CV or job posting` {
		t.Errorf("Unexpected detail: %s", report.Violations[0].Detail)
	}
}
