package renderer

import (
	_ "embed"
	"fmt"
	"os"
	"text/template"
)

//go:embed templates/letter.tex.tmpl
var defaultTemplate string

// Template is a parsed letter template.
type Template struct {
	name string
	tmpl *template.Template
}

// Name returns the template's source name.
func (t *Template) Name() (name string) {
	name = t.name
	return name
}

// DefaultTemplate returns the built-in LaTeX letter template.
func DefaultTemplate() (tmpl *Template) {
	tmpl, err := ParseTemplate("default", defaultTemplate)
	if err != nil {
		panic(fmt.Sprintf("built-in letter template is invalid: %v", err))
	}
	return tmpl
}

// LoadTemplate reads and parses a template file. An empty path selects the built-in template.
func LoadTemplate(path string) (tmpl *Template, err error) {
	if path == "" {
		tmpl = DefaultTemplate()
		return tmpl, err
	}

	var content []byte
	content, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = &RenderError{Kind: KindTemplate, Message: fmt.Sprintf("template file not found: %s", path), Err: err}
			return tmpl, err
		}
		err = &RenderError{Kind: KindTemplate, Message: fmt.Sprintf("failed to read template file: %s", path), Err: err}
		return tmpl, err
	}

	tmpl, err = ParseTemplate(path, string(content))
	return tmpl, err
}

// ParseTemplate parses template text. Templates see the fields SenderName, SenderAddress,
// RecipientName, Company, RecipientAddress, Opening, Closing, Role, Tone and Body, plus the
// escape and punctuate helpers. Referencing any other field is an error.
func ParseTemplate(name string, text string) (tmpl *Template, err error) {
	var parsed *template.Template
	parsed, err = template.New(name).
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"escape":    EscapeLaTeX,
			"punctuate": punctuate,
		}).
		Parse(text)
	if err != nil {
		err = &RenderError{Kind: KindTemplate, Message: "failed to parse template", Err: err}
		return tmpl, err
	}

	tmpl = &Template{name: name, tmpl: parsed}
	return tmpl, err
}
