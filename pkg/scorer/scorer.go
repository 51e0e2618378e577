package scorer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//nolint:gochecknoglobals // compiled once
var (
	numberPattern      = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)
	placeholderPattern = regexp.MustCompile(`\[[A-Z][A-Za-z' ]{2,40}\]`)
	markdownPattern    = regexp.MustCompile(`(?m)\*\*[^*\n]+\*\*|^\s*(?:[-*]|\d+\.)\s+\S`)
)

// Input is a generated letter body together with the sources it must be grounded in. Company
// is optional; when empty the company rule is skipped.
type Input struct {
	Body    string
	CVText  string
	JobText string
	Company string
}

// Violation is a single rule hit.
type Violation struct {
	Rule     string
	Severity string
	Detail   string
}

// Report is the outcome of reviewing one body.
type Report struct {
	Score      int
	Violations []Violation
}

// Passed reports whether the body has no critical violation and scores at least PassThreshold.
func (r Report) Passed() (ok bool) {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			return ok
		}
	}
	ok = r.Score >= PassThreshold
	return ok
}

// Scorer reviews generated letter bodies with deterministic rules.
type Scorer struct{}

// NewScorer creates a new scorer instance.
func NewScorer() (scorer *Scorer) {
	scorer = &Scorer{}
	return scorer
}

// Score applies every rule to the body and deducts each violated rule's weight once from 100.
func (s *Scorer) Score(in Input) (report Report) {
	report.Violations = append(report.Violations, s.checkMetrics(in)...)
	report.Violations = append(report.Violations, s.checkPlaceholders(in)...)
	report.Violations = append(report.Violations, s.checkMarkdown(in)...)
	report.Violations = append(report.Violations, s.checkCompany(in)...)

	report.Score = 100
	deducted := map[string]bool{}
	for _, v := range report.Violations {
		if deducted[v.Rule] {
			continue
		}
		deducted[v.Rule] = true
		report.Score -= ScoringRules[v.Rule].Weight
	}

	if report.Score < 0 {
		report.Score = 0
	}

	return report
}

// checkMetrics flags every figure in the body that does not occur in the CV or the posting.
func (s *Scorer) checkMetrics(in Input) (violations []Violation) {
	known := numbers(in.CVText + "\n" + in.JobText)

	unknown := map[string]bool{}
	for n := range numbers(in.Body) {
		if !known[n] {
			unknown[n] = true
		}
	}

	for _, n := range sortedKeys(unknown) {
		violations = append(violations, newViolation(RuleMetricFabrication, fmt.Sprintf("%q is not in the CV or job posting", n)))
	}
	return violations
}

func (s *Scorer) checkPlaceholders(in Input) (violations []Violation) {
	for _, match := range placeholderPattern.FindAllString(in.Body, -1) {
		violations = append(violations, newViolation(RulePlaceholderText, match))
	}
	return violations
}

func (s *Scorer) checkMarkdown(in Input) (violations []Violation) {
	match := markdownPattern.FindString(in.Body)
	if match != "" {
		violations = append(violations, newViolation(RuleMarkdownFormatting, strings.TrimSpace(match)))
	}
	return violations
}

func (s *Scorer) checkCompany(in Input) (violations []Violation) {
	company := strings.TrimSpace(in.Company)
	if company == "" {
		return violations
	}
	if !strings.Contains(strings.ToLower(in.Body), strings.ToLower(company)) {
		violations = append(violations, newViolation(RuleCompanyNotNamed, company))
	}
	return violations
}

func newViolation(rule string, detail string) (v Violation) {
	v = Violation{
		Rule:     rule,
		Severity: ScoringRules[rule].Severity,
		Detail:   detail,
	}
	return v
}

// numbers returns the set of figures in text with thousands separators removed.
func numbers(text string) (set map[string]bool) {
	set = map[string]bool{}
	for _, match := range numberPattern.FindAllString(text, -1) {
		n := strings.ReplaceAll(strings.TrimRight(match, ","), ",", "")
		if n != "" {
			set[n] = true
		}
	}
	return set
}

func sortedKeys(set map[string]bool) (keys []string) {
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
