package scorer

// Rule represents a review rule.
type Rule struct {
	Name        string
	Category    string // anti_fabrication, quality
	Severity    string // critical, major, minor
	Description string
	Weight      int // Points deducted for violation
}

// Rule names.
const (
	RuleMetricFabrication  = "METRIC_FABRICATION"
	RulePlaceholderText    = "PLACEHOLDER_TEXT"
	RuleMarkdownFormatting = "MARKDOWN_FORMATTING"
	RuleCompanyNotNamed    = "COMPANY_NOT_NAMED"
)

// Severities.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

// PassThreshold is the lowest score a body may have and still pass review.
const PassThreshold = 70

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = map[string]Rule{
	// Anti-Fabrication Rules (Critical)
	RuleMetricFabrication: {
		Name:        RuleMetricFabrication,
		Category:    "anti_fabrication",
		Severity:    SeverityCritical,
		Description: "Figures (counts, percentages, dollar amounts) found in neither the CV nor the job posting",
		Weight:      30,
	},

	// Quality Rules
	RulePlaceholderText: {
		Name:        RulePlaceholderText,
		Category:    "quality",
		Severity:    SeverityMajor,
		Description: "Template placeholders such as [Company Name] left in the body",
		Weight:      20,
	},
	RuleMarkdownFormatting: {
		Name:        RuleMarkdownFormatting,
		Category:    "quality",
		Severity:    SeverityMinor,
		Description: "Markdown emphasis or list markers in a LaTeX body",
		Weight:      5,
	},
	RuleCompanyNotNamed: {
		Name:        RuleCompanyNotNamed,
		Category:    "quality",
		Severity:    SeverityMinor,
		Description: "The body never names the target company",
		Weight:      5,
	},
}
