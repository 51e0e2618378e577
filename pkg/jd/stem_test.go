package jd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{source: "job.txt", want: "job"},
		{source: "/tmp/postings/Acme Senior Engineer.md", want: "acme-senior-engineer"},
		{source: "postings/acme", want: "acme"},
		{source: "https://boards.greenhouse.io/acme/jobs/4012345", want: "4012345"},
		{source: "https://example.com/careers/staff-engineer.html", want: "staff-engineer"},
		{source: "https://example.com/careers/Staff_Engineer/", want: "staff-engineer"},
		{source: "https://example.com", want: "example-com"},
		{source: "https://example.com/", want: "example-com"},
		{source: "___.txt", want: DefaultStem},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.source))
		})
	}
}

func TestStemIsDeterministic(t *testing.T) {
	source := "https://jobs.lever.co/acme/Senior-Backend-Engineer?lever-source=x"
	assert.Equal(t, Stem(source), Stem(source))
	assert.Equal(t, "senior-backend-engineer", Stem(source))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Acme Inc.", want: "acme"},
		{input: "Globex, LLC", want: "globex"},
		{input: "Initech Corporation", want: "initech"},
		{input: "  Big -- Co!!  ", want: "big-co"},
		{input: "Ünïcode Role", want: "n-code-role"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.input))
		})
	}
}
