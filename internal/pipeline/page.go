package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates the page template failed to execute.
var ErrPageRender = errors.New("page template rendering failed")

// PageData is what the page template receives.
type PageData struct {
	Title        string
	Path         string
	CSS          string
	HighlightCSS string
	Script       string
	Body         string // rendered fragment, trusted
}

// PageAssembler wraps a rendered fragment into a complete HTML document.
type PageAssembler interface {
	Assemble(ctx context.Context, data *PageData) (string, error)
}

// PageTemplate assembles pages from an html/template.
type PageTemplate struct {
	tmpl *template.Template
}

// Compile-time interface check.
var _ PageAssembler = (*PageTemplate)(nil)

// NewPageTemplate parses tmplContent. The template sees .CSS and
// .HighlightCSS as template.CSS, .Script as template.JS and .Body as
// template.HTML.
func NewPageTemplate(tmplContent string) (*PageTemplate, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageTemplate{tmpl: tmpl}, nil
}

// Assemble executes the template. Stylesheets and the script are escaped so
// they cannot close their enclosing element.
func (p *PageTemplate) Assemble(ctx context.Context, data *PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = &PageData{}
	}

	view := struct {
		Title        string
		Path         string
		CSS          template.CSS
		HighlightCSS template.CSS
		Script       template.JS
		Body         template.HTML
	}{
		Title:        data.Title,
		Path:         data.Path,
		CSS:          template.CSS(sanitizeEmbedded(data.CSS)),          // #nosec G203 -- escaped above
		HighlightCSS: template.CSS(sanitizeEmbedded(data.HighlightCSS)), // #nosec G203 -- escaped above
		Script:       template.JS(sanitizeEmbedded(data.Script)),        // #nosec G203 -- escaped above
		Body:         template.HTML(data.Body),                          // #nosec G203 -- produced by the renderer
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeEmbedded escapes "</" so embedded CSS or JS cannot end its
// <style> or <script> element early.
func sanitizeEmbedded(s string) string {
	return strings.ReplaceAll(s, "</", `<\/`)
}
