package llm

import (
	"strings"

	"github.com/nikogura/covergen/pkg/jd"
)

// Hard fallbacks used when neither an override, a derived value nor a config default exists.
const (
	FallbackRecipient = "Hiring Manager"
	FallbackCompany   = "the Company"
	FallbackTone      = "professional"
	FallbackOpening   = "Dear Hiring Manager"
	FallbackClosing   = "Sincerely,"
)

const promptPreamble = `You write tailored cover letter bodies in LaTeX.

Return ONLY the main paragraph content of the letter as a LaTeX body fragment:
- no document preamble or postamble (\documentclass, \begin{document}, \end{document})
- no \opening, \closing, greeting, sign-off or signature lines
- no sender or recipient addresses and no dates
- no markdown and no code fences
Write two to three focused paragraphs separated by blank lines. The text must be valid LaTeX;
escape special characters such as %, &, $, # and _.`

const promptInstructions = `Ground every claim in the candidate CV; do not invent employers, titles, dates or metrics.
Connect the candidate's most relevant experience to the requirements of the job.`

// BuildRequest resolves every field of a generation request and composes its prompt.
// It performs no I/O and is deterministic.
func BuildRequest(job jd.Posting, cvText string, o Overrides, d Defaults) (req GenerationRequest) {
	req = GenerationRequest{
		JobText:           job.Text,
		CVText:            cvText,
		Role:              strings.TrimSpace(o.Role),
		Tone:              resolveTone(o, d),
		ExtraInstructions: strings.TrimSpace(o.ExtraInstructions),
		Opening:           resolveOpening(o, d),
		Closing:           resolveClosing(o, d),
		SenderName:        resolveSenderName(o, d),
		SenderAddress:     resolveLines(o.SenderAddress, d.SenderAddress),
		RecipientName:     resolveRecipientName(o, job, d),
		Company:           resolveCompany(o, job, d),
		RecipientAddress:  resolveLines(o.RecipientAddress, d.RecipientAddress),
		OutputStem:        ResolveStem(o, job),
	}
	req.Prompt = buildPrompt(req)
	return req
}

// resolve returns the first non-blank candidate, trimmed.
func resolve(candidates ...string) (value string) {
	for _, candidate := range candidates {
		value = strings.TrimSpace(candidate)
		if value != "" {
			return value
		}
	}
	value = ""
	return value
}

func resolveTone(o Overrides, d Defaults) (tone string) {
	tone = resolve(o.Tone, d.Tone, FallbackTone)
	return tone
}

func resolveOpening(o Overrides, d Defaults) (opening string) {
	opening = resolve(o.Opening, d.Opening, FallbackOpening)
	return opening
}

func resolveClosing(o Overrides, d Defaults) (closing string) {
	closing = resolve(o.Closing, d.Closing, FallbackClosing)
	return closing
}

// resolveSenderName has no hard fallback; a missing sender is reported at render time.
func resolveSenderName(o Overrides, d Defaults) (name string) {
	name = resolve(o.SenderName, d.SenderName)
	return name
}

func resolveRecipientName(o Overrides, job jd.Posting, d Defaults) (name string) {
	name = resolve(o.RecipientName, job.Recipient, d.RecipientName, FallbackRecipient)
	return name
}

func resolveCompany(o Overrides, job jd.Posting, d Defaults) (company string) {
	company = resolve(o.Company, job.Company, d.Company, FallbackCompany)
	return company
}

// resolveLines returns the trimmed, non-empty override lines, else the default lines.
func resolveLines(override []string, fallback []string) (lines []string) {
	for _, candidates := range [][]string{override, fallback} {
		lines = nil
		for _, line := range candidates {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return lines
		}
	}
	lines = []string{}
	return lines
}

// ResolveStem returns the slugified stem override, or the stem derived from the job source.
func ResolveStem(o Overrides, job jd.Posting) (stem string) {
	stem = jd.Slug(o.OutputStem)
	if stem == "" {
		stem = jd.Stem(job.Source)
	}
	return stem
}

// buildPrompt lays out the prompt in a fixed order: preamble, CV, job, context, instructions.
// Inputs are passed through without truncation.
func buildPrompt(req GenerationRequest) (prompt string) {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\nCANDIDATE CV:\n")
	b.WriteString(req.CVText)
	b.WriteString("\n\nJOB DESCRIPTION:\n")
	b.WriteString(req.JobText)
	b.WriteString("\n\nCONTEXT:\n")
	if req.Role != "" {
		b.WriteString("Target role: " + req.Role + "\n")
	}
	b.WriteString("Company: " + req.Company + "\n")
	b.WriteString("Desired tone: " + req.Tone + "\n")
	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString(promptInstructions)
	if req.ExtraInstructions != "" {
		b.WriteString("\nAdditional guidance: " + req.ExtraInstructions)
	}
	b.WriteString("\n")

	prompt = b.String()
	return prompt
}
