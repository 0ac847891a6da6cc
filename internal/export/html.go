package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/budget.html.tmpl
var templateFS embed.FS

var budgetTemplate = template.Must(
	template.New("budget.html.tmpl").
		Funcs(template.FuncMap{
			"usd":        USD,
			"qty":        Qty,
			"disclaimer": func() string { return Disclaimer },
		}).
		ParseFS(templateFS, "templates/budget.html.tmpl"),
)

// HTML renders a standalone page suitable for printing from a browser.
func HTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := budgetTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}

	return buf.Bytes(), nil
}
