package llm

import (
	"regexp"
	"strings"
)

// maxParagraphs caps the number of paragraphs kept by Tidy.
const maxParagraphs = 3

//nolint:gochecknoglobals // compiled once
var (
	structuralCommand = regexp.MustCompile(`(?i)\\(opening|closing|signature|address|date)\s*\{[^{}]*\}`)
	letterEnvironment = regexp.MustCompile(`(?i)\\(begin|end)\{letter\}(\{[^{}]*\})?`)
	trailingPunct     = regexp.MustCompile(`[,\s]+$`)
	paragraphBreak    = regexp.MustCompile(`\n\s*\n`)
	sentenceBreak     = regexp.MustCompile(`([.!?])\s+`)
)

// Tidy removes structure a model sometimes emits despite instructions: code fences, letter
// commands, a repeated greeting and trailing closing or signature lines. It also collapses blank
// runs, splits a single long paragraph in two, keeps at most three paragraphs and escapes stray
// '#' characters.
func Tidy(body string, opening string, closing string, senderName string) (cleaned string) {
	cleaned = stripMarkdownCodeFences(strings.TrimSpace(body))
	if cleaned == "" {
		return cleaned
	}

	// Drop LaTeX structure the template provides
	cleaned = structuralCommand.ReplaceAllString(cleaned, "")
	cleaned = letterEnvironment.ReplaceAllString(cleaned, "")

	lines := strings.Split(strings.TrimSpace(cleaned), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}

	// Remove a leading greeting that duplicates the opening
	if len(lines) > 0 && matchesPhrase(lines[0], opening) {
		lines = lines[1:]
	}

	// Trim trailing closing and signature lines
	for len(lines) > 0 {
		last := lines[len(lines)-1]
		if strings.TrimSpace(last) == "" || matchesPhrase(last, closing) || matchesPhrase(last, senderName) {
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}

	paragraphs := splitParagraphs(strings.Join(lines, "\n"))
	if len(paragraphs) == 1 {
		paragraphs = splitInTwo(paragraphs[0])
	}
	if len(paragraphs) > maxParagraphs {
		paragraphs = paragraphs[:maxParagraphs]
	}

	cleaned = escapeHashes(strings.Join(paragraphs, "\n\n"))
	return cleaned
}

// stripMarkdownCodeFences removes a surrounding ``` fence, with or without a language tag.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = text
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Skip the opening fence line
	start := strings.IndexByte(cleaned, '\n')
	if start == -1 {
		cleaned = ""
		return cleaned
	}
	cleaned = cleaned[start+1:]

	// Drop the closing fence
	trimmed := strings.TrimRight(cleaned, " \t\r\n")
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSuffix(trimmed, "```")
	}
	cleaned = strings.TrimSpace(trimmed)
	return cleaned
}

// matchesPhrase compares a line to a configured phrase, ignoring case and trailing commas.
func matchesPhrase(line string, phrase string) (ok bool) {
	normalizedLine := trailingPunct.ReplaceAllString(strings.ToLower(strings.TrimSpace(line)), "")
	normalizedPhrase := trailingPunct.ReplaceAllString(strings.ToLower(strings.TrimSpace(phrase)), "")
	ok = normalizedLine != "" && normalizedLine == normalizedPhrase
	return ok
}

// splitParagraphs splits on blank lines and drops empty paragraphs.
func splitParagraphs(text string) (paragraphs []string) {
	for _, paragraph := range paragraphBreak.Split(text, -1) {
		if paragraph = strings.TrimSpace(paragraph); paragraph != "" {
			paragraphs = append(paragraphs, paragraph)
		}
	}
	return paragraphs
}

// splitInTwo divides a paragraph of two or more sentences at its midpoint sentence.
func splitInTwo(paragraph string) (paragraphs []string) {
	marked := sentenceBreak.ReplaceAllString(paragraph, "$1\x00")
	sentences := strings.Split(marked, "\x00")
	if len(sentences) < 2 {
		paragraphs = []string{paragraph}
		return paragraphs
	}

	mid := len(sentences) / 2
	first := strings.TrimSpace(strings.Join(sentences[:mid], " "))
	second := strings.TrimSpace(strings.Join(sentences[mid:], " "))
	for _, part := range []string{first, second} {
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// escapeHashes escapes every '#' not already preceded by a backslash.
func escapeHashes(text string) (escaped string) {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '#' && (i == 0 || text[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	escaped = b.String()
	return escaped
}
