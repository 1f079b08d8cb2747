package mail

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templates holds the parsed notification templates, keyed by base name.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// renderTemplate renders the named embedded template with the given data.
func renderTemplate(name string, data TemplateData) (string, error) {
	tmpl := templates.Lookup(name + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("unknown mail template %q", name)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template %q: %w", name, err)
	}
	return buf.String(), nil
}
