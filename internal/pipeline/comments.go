package pipeline

import "strings"

const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

// StripComments removes HTML comments, which carry editor-only annotations.
// Lines left blank by the removal are dropped; other touched lines lose the
// trailing whitespace the comment left behind. Fenced code is untouched, and
// an unterminated comment leaves the rest of the document as it was.
func StripComments(_ *Context, t *Text) *Text {
	b := newTextBuilder(t.Len())

	fence := ""
	inComment := false
	openLine, openMark := 0, 0

	for i, line := range t.Lines {
		if fence != "" {
			if closesFence(fence, line) {
				fence = ""
			}
			b.add(line, t.Origin[i])
			continue
		}
		if !inComment {
			if fence = openingFence(line); fence != "" {
				b.add(line, t.Origin[i])
				continue
			}
		}

		if !inComment && !strings.Contains(line, commentOpen) {
			b.add(line, t.Origin[i])
			continue
		}

		mark := b.len()
		var kept strings.Builder
		rest := line
		openedHere := false
		for {
			if inComment {
				end := strings.Index(rest, commentClose)
				if end < 0 {
					break
				}
				rest = rest[end+len(commentClose):]
				inComment = false
				openedHere = false
				continue
			}
			start := strings.Index(rest, commentOpen)
			if start < 0 {
				kept.WriteString(rest)
				break
			}
			kept.WriteString(rest[:start])
			rest = rest[start+len(commentOpen):]
			inComment = true
			openedHere = true
		}

		if openedHere {
			openLine, openMark = i, mark
		}

		stripped := strings.TrimRight(kept.String(), " \t")
		if isBlankLine(stripped) {
			continue
		}
		b.add(stripped, t.Origin[i])
	}

	if inComment {
		b.truncate(openMark)
		b.copyFrom(t, openLine, t.Len())
	}
	return b.text()
}
