package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*
var templateFS embed.FS

func NewTemplates() *Templates {
	return &Templates{}
}

// Render executes the subject, plainBody and htmlBody blocks of an embedded notification template.
func (tp *Templates) Render(name string, data any) (*RenderedMail, error) {
	t, err := template.New("notification").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("could not parse template %s: %w", name, err)
	}

	var out RenderedMail
	blocks := []struct {
		name string
		dst  *string
	}{
		{name: "subject", dst: &out.Subject},
		{name: "plainBody", dst: &out.PlainBody},
		{name: "htmlBody", dst: &out.HTMLBody},
	}

	for _, b := range blocks {
		buf := new(bytes.Buffer)
		err = t.ExecuteTemplate(buf, b.name, data)
		if err != nil {
			return nil, fmt.Errorf("could not render %s of %s: %w", b.name, name, err)
		}
		*b.dst = buf.String()
	}

	out.Subject = strings.TrimSpace(out.Subject)

	return &out, nil
}
