package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals // terminal styles
var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// printArtifact prints a labelled output path. Empty paths are skipped.
func printArtifact(label string, path string) {
	if path == "" {
		return
	}
	fmt.Printf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), pathStyle.Render(path))
}

// tail returns the last n bytes of text, starting at a line boundary when one is available.
func tail(text string, n int) (out string) {
	if len(text) <= n {
		out = text
		return out
	}
	out = text[len(text)-n:]
	if i := strings.IndexByte(out, '\n'); i >= 0 && i < len(out)-1 {
		out = out[i+1:]
	}
	return out
}
