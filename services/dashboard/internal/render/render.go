// Package render turns dashboard snapshots into view models and HTML.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Fragment names defined by the embedded templates.
const (
	TemplatePage      = "page"
	TemplateMainCard  = "main_card"
	TemplateDaily     = "daily_cards"
	TemplateDaySelect = "day_select"
	TemplateHourly    = "hourly"
	TemplateChat      = "chat"
)

// Templates parses the embedded page and fragment templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("dashboard").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Execute renders one named template to w.
func Execute(w io.Writer, tmpl *template.Template, name string, data any) error {
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
