package renderer

import (
	"strings"

	"github.com/nikogura/covergen/pkg/llm"
)

// Document is a rendered letter source together with its artifact basename.
type Document struct {
	Source string
	Stem   string
}

// Render fills tmpl with the request's fields and the generated body. Every required field is
// checked first; a blank one is a RenderError of kind missing_field. The output depends only on
// the inputs.
func Render(req llm.GenerationRequest, body llm.GeneratedBody, tmpl *Template) (doc Document, err error) {
	err = checkRequired(req, body)
	if err != nil {
		return doc, err
	}

	if tmpl == nil {
		tmpl = DefaultTemplate()
	}

	data := map[string]any{
		"SenderName":       strings.TrimSpace(req.SenderName),
		"SenderAddress":    nonBlank(req.SenderAddress),
		"RecipientName":    strings.TrimSpace(req.RecipientName),
		"Company":          strings.TrimSpace(req.Company),
		"RecipientAddress": nonBlank(req.RecipientAddress),
		"Opening":          strings.TrimSpace(req.Opening),
		"Closing":          strings.TrimSpace(req.Closing),
		"Role":             strings.TrimSpace(req.Role),
		"Tone":             strings.TrimSpace(req.Tone),
		"Body":             strings.TrimSpace(body.Text),
	}

	var out strings.Builder
	err = tmpl.tmpl.Execute(&out, data)
	if err != nil {
		err = &RenderError{Kind: KindTemplate, Message: "failed to execute template " + tmpl.name, Err: err}
		return doc, err
	}

	doc = Document{
		Source: out.String(),
		Stem:   req.OutputStem,
	}
	return doc, err
}

// checkRequired reports the first blank required field.
func checkRequired(req llm.GenerationRequest, body llm.GeneratedBody) (err error) {
	required := []struct {
		field string
		ok    bool
	}{
		{field: "sender_name", ok: strings.TrimSpace(req.SenderName) != ""},
		{field: "sender_address", ok: len(nonBlank(req.SenderAddress)) > 0},
		{field: "recipient_name", ok: strings.TrimSpace(req.RecipientName) != ""},
		{field: "company", ok: strings.TrimSpace(req.Company) != ""},
		{field: "opening", ok: strings.TrimSpace(req.Opening) != ""},
		{field: "closing", ok: strings.TrimSpace(req.Closing) != ""},
		{field: "body", ok: strings.TrimSpace(body.Text) != ""},
	}

	for _, r := range required {
		if !r.ok {
			err = &RenderError{Kind: KindMissingField, Field: r.field}
			return err
		}
	}
	return err
}

func nonBlank(lines []string) (kept []string) {
	kept = []string{}
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return kept
}
