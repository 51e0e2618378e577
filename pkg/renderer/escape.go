package renderer

import "strings"

// EscapeLaTeX escapes the LaTeX special characters \ { } $ & % # ^ _ ~ in text.
func EscapeLaTeX(text string) (escaped string) {
	if text == "" {
		return escaped
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		default:
			result.WriteRune(r)
		}
	}

	escaped = result.String()
	return escaped
}

// punctuate appends a comma to a salutation unless it already ends in punctuation.
func punctuate(text string) (out string) {
	out = strings.TrimSpace(text)
	if out == "" || strings.ContainsAny(out[len(out)-1:], ",:;.!?") {
		return out
	}
	out += ","
	return out
}
