package pipeline

import (
	"regexp"
	"strings"
)

// metaLinePattern matches "**Label**: value" and "**Label:** value" for the
// recognized header labels only.
var metaLinePattern = regexp.MustCompile(
	`^\s*\*\*(Feature Branch|Created|Status|Input|Version|Author|Last Updated)(?::\*\*|\*\*:)\s*(.*?)\s*$`,
)

// metaInputLabel is rendered as its own full-width row.
const metaInputLabel = "Input"

type metaField struct {
	label string
	value string
}

// CollapseMetadata folds the run of metadata lines that follows the first
// heading into a single header fragment. Blank lines may separate the fields;
// any other line ends the run. The fragment maps to the first field's line.
func CollapseMetadata(rc *Context, t *Text) *Text {
	heading := firstHeading(t)
	if heading < 0 {
		return t
	}

	first := heading + 1
	for first < t.Len() && isBlankLine(t.Lines[first]) {
		first++
	}

	var fields []metaField
	end := first // one past the last consumed field line
	for i := first; i < t.Len(); i++ {
		line := t.Lines[i]
		if isBlankLine(line) {
			continue
		}
		m := metaLinePattern.FindStringSubmatch(line)
		if m == nil {
			break
		}
		fields = append(fields, metaField{label: m[1], value: m[2]})
		end = i + 1
	}
	if len(fields) == 0 {
		return t
	}

	b := newTextBuilder(t.Len() - (end - first) + 1)
	b.copyFrom(t, 0, first)
	b.add(renderMetadata(rc, fields), t.Origin[first])
	b.copyFrom(t, end, t.Len())
	return b.text()
}

func firstHeading(t *Text) int {
	mask := t.fenceMask()
	for i, line := range t.Lines {
		if !mask[i] && headingPattern.MatchString(line) {
			return i
		}
	}
	return -1
}

func renderMetadata(rc *Context, fields []metaField) string {
	var grid, input strings.Builder
	for _, f := range fields {
		item := `<span class="meta-label">` + f.label + `</span><span class="meta-value">` +
			rc.parseInline(f.value) + `</span>`
		if f.label == metaInputLabel {
			input.WriteString(`<div class="meta-item meta-input">` + item + `</div>`)
			continue
		}
		grid.WriteString(`<div class="meta-item">` + item + `</div>`)
	}

	var sb strings.Builder
	sb.WriteString(`<div class="spec-metadata">`)
	if grid.Len() > 0 {
		sb.WriteString(`<div class="meta-grid">`)
		sb.WriteString(grid.String())
		sb.WriteString(`</div>`)
	}
	sb.WriteString(input.String())
	sb.WriteString(`</div>`)
	return sb.String()
}
