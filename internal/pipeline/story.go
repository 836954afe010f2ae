package pipeline

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// storyHeadingPattern matches "### User Story 2 - Title (Priority: P2) tag".
// The separator may be a hyphen, en dash, em dash or colon.
var storyHeadingPattern = regexp.MustCompile(
	`^###\s+User Story\s+(\d+)\s*[-–—:]\s*(.+?)\s*\(Priority:\s*([^)]+?)\s*\)\s*(.*?)\s*$`,
)

// storyNumberPattern reads the story number back from a rendered header.
var storyNumberPattern = regexp.MustCompile(`data-story="(\d+)"`)

// priorityLabels maps the recognized priority codes to badge labels.
var priorityLabels = map[string]string{
	"P1": "Critical",
	"P2": "High",
	"P3": "Medium",
	"P4": "Low",
	"P5": "Trivial",
}

// ConvertUserStories turns user story headings into card header fragments.
func ConvertUserStories(rc *Context, t *Text) *Text {
	mask := t.fenceMask()
	b := newTextBuilder(t.Len())
	changed := false

	for i, line := range t.Lines {
		if !mask[i] {
			if m := storyHeadingPattern.FindStringSubmatch(line); m != nil {
				b.add(renderStoryHeader(rc, m[1], m[2], m[3], m[4]), t.Origin[i])
				changed = true
				continue
			}
		}
		b.add(line, t.Origin[i])
	}
	if !changed {
		return t
	}
	return b.text()
}

func renderStoryHeader(rc *Context, number, title, priority, tag string) string {
	code := strings.ToUpper(priority)
	label, known := priorityLabels[code]

	var badge string
	if known {
		badge = fmt.Sprintf(`<span class="priority-badge priority-%s" title="Priority %s">%s · %s</span>`,
			strings.ToLower(code), code, code, label)
	} else {
		badge = `<span class="priority-badge priority-unknown">` + html.EscapeString(priority) + `</span>`
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="user-story-header" data-story="%s">`, number)
	fmt.Fprintf(&sb, `<span class="story-number">User Story %s</span>`, number)
	sb.WriteString(`<span class="story-title">` + rc.parseInline(title) + `</span>`)
	sb.WriteString(badge)
	if tag != "" {
		sb.WriteString(`<span class="story-tag">` + rc.parseInline(tag) + `</span>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
