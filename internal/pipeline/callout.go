package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Bold keyword callout: "**Note**: text" or "**Note:** text"
	boldCalloutPattern = regexp.MustCompile(
		`^\s*\*\*(Purpose|CRITICAL|Checkpoint|Note|Warning|Important)(:?)\*\*(:?)\s*(.*?)\s*$`,
	)

	// GitHub admonition opener: "> [!NOTE] optional text"
	admonitionPattern = regexp.MustCompile(
		`^\s{0,3}>\s*\[!(NOTE|WARNING|IMPORTANT|TIP|CAUTION)\]\s*(.*?)\s*$`,
	)
)

// ConvertCallouts turns bold keyword callouts and blockquote admonitions into
// callout boxes. A bold callout body runs until a blank line, a heading or
// another bold label; an admonition body is the quote lines that follow it.
func ConvertCallouts(rc *Context, t *Text) *Text {
	mask := t.fenceMask()
	b := newTextBuilder(t.Len())
	title := cases.Title(language.English)
	changed := false

	for i := 0; i < t.Len(); i++ {
		line := t.Lines[i]
		if mask[i] {
			b.add(line, t.Origin[i])
			continue
		}

		if m := boldCalloutPattern.FindStringSubmatch(line); m != nil && (m[2] != "" || m[3] != "") {
			body := []string{m[4]}
			j := i + 1
			for ; j < t.Len() && !mask[j] && !endsCalloutBody(t.Lines[j]); j++ {
				body = append(body, strings.TrimSpace(t.Lines[j]))
			}
			b.add(renderCallout(rc, m[1], title.String(strings.ToLower(m[1])), body), t.Origin[i])
			i = j - 1
			changed = true
			continue
		}

		if m := admonitionPattern.FindStringSubmatch(line); m != nil {
			body := []string{m[2]}
			j := i + 1
			for ; j < t.Len() && !mask[j]; j++ {
				q := quotePattern.FindStringSubmatch(t.Lines[j])
				if q == nil {
					break
				}
				body = append(body, strings.TrimSpace(q[1]))
			}
			b.add(renderCallout(rc, m[1], title.String(strings.ToLower(m[1])), body), t.Origin[i])
			i = j - 1
			changed = true
			continue
		}

		b.add(line, t.Origin[i])
	}

	if !changed {
		return t
	}
	return b.text()
}

func endsCalloutBody(line string) bool {
	return isBlankLine(line) ||
		headingPattern.MatchString(line) ||
		boldLabelPattern.MatchString(line) ||
		fencePattern.MatchString(line) ||
		passthroughPattern.MatchString(line)
}

func renderCallout(rc *Context, kind, label string, body []string) string {
	parts := make([]string, 0, len(body))
	for _, line := range body {
		if line == "" {
			continue
		}
		parts = append(parts, rc.parseInline(line))
	}

	var sb strings.Builder
	sb.WriteString(`<div class="callout callout-` + strings.ToLower(kind) + `">`)
	sb.WriteString(`<div class="callout-label">` + label + `</div>`)
	sb.WriteString(`<div class="callout-content">` + strings.Join(parts, "<br>") + `</div>`)
	sb.WriteString(`</div>`)
	return sb.String()
}
