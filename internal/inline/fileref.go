package inline

import (
	"strings"
)

// renderCodeSpan renders the (already escaped) content of a code span.
// Filenames become a clickable file-reference control; the full text is kept in
// data-filename and, when it contains a path, the label shows only the last
// segment while the title carries the full path.
func (p *Parser) renderCodeSpan(content string) string {
	trimmed := strings.TrimSpace(content)
	if !p.filename.MatchString(trimmed) {
		return "<code>" + content + "</code>"
	}

	label := trimmed
	title := ""
	if idx := strings.LastIndexAny(trimmed, `/\`); idx >= 0 {
		label = trimmed[idx+1:]
		title = ` title="` + trimmed + `"`
	}

	return `<span class="file-ref" role="button" tabindex="0" data-filename="` +
		trimmed + `"` + title + `><code>` + label + `</code></span>`
}
