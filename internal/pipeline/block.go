package pipeline

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// BlockRenderer abstracts the conversion of preprocessed text to HTML.
type BlockRenderer interface {
	RenderBlocks(ctx context.Context, rc *Context, t *Text) (string, error)
}

// LineRenderer renders preprocessed text one line at a time through the
// block state machine. Editable blocks carry the source line that produced
// them in data-line.
type LineRenderer struct{}

// Compile-time interface check.
var _ BlockRenderer = (*LineRenderer)(nil)

// RenderBlocks renders t to an HTML fragment. It only fails when ctx is done.
func (LineRenderer) RenderBlocks(ctx context.Context, rc *Context, t *Text) (string, error) {
	r := &blockRenderer{
		ctx:      ctx,
		rc:       rc,
		t:        t,
		progress: computeProgress(t),
	}
	if err := r.run(); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

// blockRenderer holds the state of one RenderBlocks call.
type blockRenderer struct {
	ctx      context.Context
	rc       *Context
	t        *Text
	progress map[int]taskProgress
	out      strings.Builder

	state state

	// stateCode
	codeFence string
	codeLang  string
	codeLines []string

	// stateList
	listTag string // "ul" or "ol"

	// stateTable
	tableRows int

	storyOpen bool
}

func (r *blockRenderer) run() error {
	for i := 0; i < r.t.Len(); {
		if i%64 == 0 {
			if err := r.ctx.Err(); err != nil {
				return err
			}
		}
		r.rc.line = i + 1

		kind := classify(r.t.Lines[i])
		next, consumed := lookupTransition(r.state, kind)(r, i)
		r.state = next
		if consumed {
			i++
		}
	}
	r.finish()
	return nil
}

// finish closes whatever is still open at the end of the text.
func (r *blockRenderer) finish() {
	switch r.state {
	case stateCode:
		r.flushCode()
	case stateList:
		r.closeList(r.t.Len())
	case stateTable:
		r.closeTable(r.t.Len())
	}
	r.state = stateDefault
	r.closeStory()
}

func (r *blockRenderer) sourceLine(i int) int {
	return r.t.SourceLine(i)
}

func (r *blockRenderer) line(i int) string {
	return r.t.Lines[i]
}

// ---------------------------------------------------------------------------
// Default state
// ---------------------------------------------------------------------------

func (r *blockRenderer) skipBlank(int) (state, bool) {
	return stateDefault, true
}

func (r *blockRenderer) rule(int) (state, bool) {
	r.out.WriteString("<hr>\n")
	return stateDefault, true
}

func (r *blockRenderer) heading(i int) (state, bool) {
	m := headingPattern.FindStringSubmatch(r.line(i))
	level := len(m[1])
	if level <= 3 {
		r.closeStory()
	}

	var attrs string
	if id, ok := r.rc.HeadingIDs[r.sourceLine(i)]; ok && id != "" {
		attrs = ` id="` + html.EscapeString(id) + `"`
	}
	content := r.rc.parseInline(m[2])
	if p, ok := r.progress[i]; ok && (level == 2 || level == 3) {
		content += p.badge()
	}
	h := fmt.Sprintf("<h%d%s>%s</h%d>", level, attrs, content, level)

	if level < 3 {
		r.out.WriteString(h + "\n")
		return stateDefault, true
	}
	r.editable(i, h)
	return stateDefault, true
}

func (r *blockRenderer) quote(i int) (state, bool) {
	m := quotePattern.FindStringSubmatch(r.line(i))
	r.editable(i, "<blockquote>"+r.rc.parseInline(strings.TrimSpace(m[1]))+"</blockquote>")
	return stateDefault, true
}

func (r *blockRenderer) paragraph(i int) (state, bool) {
	r.editable(i, "<p>"+r.rc.parseInline(strings.TrimSpace(r.line(i)))+"</p>")
	return stateDefault, true
}

// passthrough emits preprocessor HTML as-is. A user story header opens a
// section that lasts until the next heading of level 3 or above, the next
// story or the end of the text.
func (r *blockRenderer) passthrough(i int) (state, bool) {
	line := strings.TrimSpace(r.line(i))
	if strings.Contains(line, `class="user-story-header"`) {
		r.closeStory()
		story := ""
		if m := storyNumberPattern.FindStringSubmatch(line); m != nil {
			story = ` data-story="` + m[1] + `"`
		}
		r.out.WriteString(`<section class="user-story"` + story + ">\n")
		r.storyOpen = true
	}
	r.out.WriteString(line + "\n")
	return stateDefault, true
}

func (r *blockRenderer) closeStory() {
	if r.storyOpen {
		r.out.WriteString("</section>\n")
		r.storyOpen = false
	}
}

// editable wraps inner with the comment affordance and tags it with the
// source line.
func (r *blockRenderer) editable(i int, inner string) {
	n := r.sourceLine(i)
	fmt.Fprintf(&r.out, `<div class="line-block" data-line="%d">%s%s</div>`+"\n", n, inner, commentControls(n))
}

func commentControls(line int) string {
	return fmt.Sprintf(`<button class="line-action add-comment" data-line="%d" title="Add comment">+</button>`+
		`<div class="line-comment" data-line="%d"></div>`, line, line)
}

// ---------------------------------------------------------------------------
// List state
// ---------------------------------------------------------------------------

func (r *blockRenderer) openList(i int) (state, bool) {
	line := r.line(i)
	switch {
	case classify(line) == kindOrdered:
		r.listTag = "ol"
		m := orderedPattern.FindStringSubmatch(line)
		start := ""
		if n, err := strconv.Atoi(m[2]); err == nil && n != 1 {
			start = fmt.Sprintf(` start="%d"`, n)
		}
		r.out.WriteString("<ol" + start + ">\n")
	case isTaskLine(line):
		r.listTag = "ul"
		r.out.WriteString(`<ul class="task-list">` + "\n")
	default:
		r.listTag = "ul"
		r.out.WriteString("<ul>\n")
	}
	return r.listItem(i)
}

func (r *blockRenderer) listItem(i int) (state, bool) {
	line := r.line(i)
	tag := "ul"
	if classify(line) == kindOrdered {
		tag = "ol"
	}
	if tag != r.listTag {
		r.closeList(i)
		return stateDefault, false
	}

	n := r.sourceLine(i)
	if tag == "ul" {
		m := unorderedPattern.FindStringSubmatch(line)
		depth := depthAttr(m[1])
		if task := taskPattern.FindStringSubmatch(m[2]); task != nil {
			r.taskItem(n, depth, task[1] != " ", task[2])
			return stateList, true
		}
		fmt.Fprintf(&r.out, `<li class="line-block" data-line="%d"%s>%s%s</li>`+"\n",
			n, depth, r.rc.parseInline(strings.TrimSpace(m[2])), commentControls(n))
		return stateList, true
	}

	m := orderedPattern.FindStringSubmatch(line)
	fmt.Fprintf(&r.out, `<li class="line-block" data-line="%d"%s value="%s">%s%s</li>`+"\n",
		n, depthAttr(m[1]), m[2], r.rc.parseInline(strings.TrimSpace(m[3])), commentControls(n))
	return stateList, true
}

// taskItem renders a checkbox item. A leading task id with bracketed tags
// ("T012 [P] [US1]") moves into the label's title.
func (r *blockRenderer) taskItem(n int, depth string, checked bool, label string) {
	label = strings.TrimSpace(label)
	title := ""
	if m := taskIDPattern.FindStringSubmatch(label); m != nil {
		id := strings.TrimSpace(m[1] + " " + strings.TrimSpace(m[2]))
		title = ` title="` + html.EscapeString(id) + `" data-task-id="` + m[1] + `"`
		label = strings.TrimSpace(m[3])
	}
	check := ""
	if checked {
		check = " checked"
	}
	fmt.Fprintf(&r.out,
		`<li class="task-item" data-line="%d"%s><input type="checkbox" class="task-checkbox" data-line="%d"%s> `+
			`<span class="task-label"%s>%s</span>%s</li>`+"\n",
		n, depth, n, check, title, r.rc.parseInline(label), commentControls(n))
}

func (r *blockRenderer) closeList(int) (state, bool) {
	r.out.WriteString("</" + r.listTag + ">\n")
	r.listTag = ""
	return stateDefault, false
}

// depthAttr returns a data-depth attribute for indented items, two spaces
// or one tab per level.
func depthAttr(indent string) string {
	width := 0
	for _, c := range indent {
		if c == '\t' {
			width += 2
		} else {
			width++
		}
	}
	if d := width / 2; d > 0 {
		return fmt.Sprintf(` data-depth="%d"`, d)
	}
	return ""
}

func isTaskLine(line string) bool {
	m := unorderedPattern.FindStringSubmatch(line)
	return m != nil && taskPattern.MatchString(m[2])
}

// ---------------------------------------------------------------------------
// Table state
// ---------------------------------------------------------------------------

func (r *blockRenderer) openTable(i int) (state, bool) {
	r.out.WriteString(`<table class="md-table">` + "\n")
	r.tableRows = 0
	return r.tableRow(i)
}

func (r *blockRenderer) tableRow(i int) (state, bool) {
	line := r.line(i)
	if tableSeparatorPattern.MatchString(line) {
		return stateTable, true
	}

	cells := splitTableRow(line)
	cell := "td"
	if r.tableRows == 0 {
		cell = "th"
		r.out.WriteString("<thead>")
	}

	r.out.WriteString("<tr>")
	for _, c := range cells {
		r.out.WriteString("<" + cell + ">" + r.rc.parseInline(c) + "</" + cell + ">")
	}
	r.out.WriteString("</tr>")

	if r.tableRows == 0 {
		r.out.WriteString("</thead><tbody>")
	}
	r.out.WriteString("\n")
	r.tableRows++
	return stateTable, true
}

func (r *blockRenderer) closeTable(int) (state, bool) {
	if r.tableRows == 0 {
		r.out.WriteString("<tbody>")
	}
	r.out.WriteString("</tbody></table>\n")
	r.tableRows = 0
	return stateDefault, false
}

func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
