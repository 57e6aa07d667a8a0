package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"eventhub/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
// A template named "x" is made of x_subject.txt, x.html and x.txt.
type templateRenderer struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// NewTemplateRenderer parses every embedded template up front.
func NewTemplateRenderer() (domain.EmailTemplateRenderer, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &templateRenderer{text: text, html: html}, nil
}

// Render executes the named template with data and returns subject, html, and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, templateName+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	subject = strings.Join(strings.Fields(buf.String()), " ")

	buf.Reset()
	if err := r.html.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := r.text.ExecuteTemplate(&buf, templateName+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	textBody = buf.String()
	return subject, htmlBody, textBody, nil
}
