package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTidy(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "already clean",
			body: "First paragraph.\n\nSecond paragraph.",
			want: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name: "code fence with language",
			body: "```latex\nFirst paragraph.\n\nSecond paragraph.\n```",
			want: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name: "letter commands",
			body: "\\begin{letter}{Acme}\n\\opening{Dear Hiring Manager,}\nFirst.\n\nSecond.\n\\closing{Sincerely,}\n\\end{letter}",
			want: "First.\n\nSecond.",
		},
		{
			name: "duplicate greeting and sign-off",
			body: "Dear Hiring Manager,\n\nFirst.\n\nSecond.\n\nSincerely,\nJane Doe",
			want: "First.\n\nSecond.",
		},
		{
			name: "blank runs collapse",
			body: "First.\n\n\n\n   \nSecond.",
			want: "First.\n\nSecond.",
		},
		{
			name: "single paragraph split",
			body: "One. Two! Three? Four.",
			want: "One. Two!\n\nThree? Four.",
		},
		{
			name: "single sentence untouched",
			body: "Just one sentence here",
			want: "Just one sentence here",
		},
		{
			name: "capped at three paragraphs",
			body: "A.\n\nB.\n\nC.\n\nD.",
			want: "A.\n\nB.\n\nC.",
		},
		{
			name: "hash escaped once",
			body: "Ranked #1 and \\#2.\n\nMore.",
			want: "Ranked \\#1 and \\#2.\n\nMore.",
		},
		{
			name: "empty",
			body: "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tidy(tt.body, "Dear Hiring Manager", "Sincerely,", "Jane Doe"))
		})
	}
}

func TestStripMarkdownCodeFences(t *testing.T) {
	assert.Equal(t, "body", stripMarkdownCodeFences("```\nbody\n```"))
	assert.Equal(t, "body", stripMarkdownCodeFences("```tex\nbody\n```  \n"))
	assert.Equal(t, "no fence", stripMarkdownCodeFences("no fence"))
	assert.Equal(t, "", stripMarkdownCodeFences("```"))
}

func TestMatchesPhrase(t *testing.T) {
	assert.True(t, matchesPhrase("Sincerely,", "sincerely"))
	assert.True(t, matchesPhrase("  JANE DOE  ", "Jane Doe"))
	assert.False(t, matchesPhrase("", ""))
	assert.False(t, matchesPhrase("Sincerely yours", "Sincerely,"))
}
