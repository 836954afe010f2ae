package pipeline

import (
	"strings"
)

// Text is a document split into lines, each carrying the 1-indexed source line
// it came from. Preprocessing passes rewrite Lines and keep Origin in step, so
// blocks rendered from preprocessed text can still be addressed by their
// position in the original source.
type Text struct {
	Lines  []string
	Origin []int
}

// NewText splits content on \n. Origin is the identity mapping.
func NewText(content string) *Text {
	lines := strings.Split(content, "\n")
	origin := make([]int, len(lines))
	for i := range origin {
		origin[i] = i + 1
	}
	return &Text{Lines: lines, Origin: origin}
}

// String joins the lines back into a document.
func (t *Text) String() string {
	return strings.Join(t.Lines, "\n")
}

// Len returns the number of lines.
func (t *Text) Len() int {
	return len(t.Lines)
}

// SourceLine returns the source line for preprocessed line i (0-indexed),
// or 0 if i is out of range.
func (t *Text) SourceLine(i int) int {
	if i < 0 || i >= len(t.Origin) {
		return 0
	}
	return t.Origin[i]
}

// fenceMask marks fence delimiters and every line between them.
// An unclosed fence extends to the end of the text.
func (t *Text) fenceMask() []bool {
	mask := make([]bool, len(t.Lines))
	open := ""
	for i, line := range t.Lines {
		switch {
		case open != "":
			mask[i] = true
			if closesFence(open, line) {
				open = ""
			}
		default:
			open = openingFence(line)
			mask[i] = open != ""
		}
	}
	return mask
}

// textBuilder accumulates the output of a pass.
type textBuilder struct {
	t Text
}

func newTextBuilder(capacity int) *textBuilder {
	return &textBuilder{t: Text{
		Lines:  make([]string, 0, capacity),
		Origin: make([]int, 0, capacity),
	}}
}

func (b *textBuilder) add(line string, origin int) {
	b.t.Lines = append(b.t.Lines, line)
	b.t.Origin = append(b.t.Origin, origin)
}

// copyFrom appends lines [from, to) of src unchanged.
func (b *textBuilder) copyFrom(src *Text, from, to int) {
	for i := from; i < to && i < len(src.Lines); i++ {
		b.add(src.Lines[i], src.Origin[i])
	}
}

func (b *textBuilder) len() int {
	return len(b.t.Lines)
}

// truncate drops lines added after position n.
func (b *textBuilder) truncate(n int) {
	b.t.Lines = b.t.Lines[:n]
	b.t.Origin = b.t.Origin[:n]
}

func (b *textBuilder) text() *Text {
	return &b.t
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
