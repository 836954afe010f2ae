package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// Runes that only show up in drawn directory trees.
const treeRunes = "├└│─┌┐┘┬┴┼"

// Indented "- " lines, the ASCII form of a tree.
var indentedDashPattern = regexp.MustCompile(`^\s+- `)

// Languages rendered without highlighting.
var plainLanguages = map[string]bool{
	"":          true,
	"text":      true,
	"plaintext": true,
	"txt":       true,
}

func (r *blockRenderer) openCode(i int) (state, bool) {
	m := fencePattern.FindStringSubmatch(r.line(i))
	r.codeFence = m[1]
	r.codeLang = strings.ToLower(m[2])
	r.codeLines = r.codeLines[:0]
	return stateCode, true
}

func (r *blockRenderer) bufferCode(i int) (state, bool) {
	r.codeLines = append(r.codeLines, r.line(i))
	return stateCode, true
}

// closeCode ends the block on a matching bare fence; any other fence line is
// code.
func (r *blockRenderer) closeCode(i int) (state, bool) {
	if !closesFence(r.codeFence, r.line(i)) {
		return r.bufferCode(i)
	}
	r.flushCode()
	return stateDefault, true
}

// flushCode renders the buffered block. Trees are detected before the
// language is looked at; mermaid and plain blocks skip the highlighter, and a
// highlighter failure falls back to plain code.
func (r *blockRenderer) flushCode() {
	code := strings.Join(r.codeLines, "\n")
	lang := r.codeLang
	r.codeLines = r.codeLines[:0]
	r.codeLang = ""
	r.codeFence = ""

	switch {
	case isTree(strings.Split(code, "\n"), r.treeThreshold()):
		r.out.WriteString(`<pre class="tree-block"><code>` + html.EscapeString(code) + "</code></pre>\n")
	case lang == "mermaid":
		r.out.WriteString(`<pre class="mermaid">` + html.EscapeString(code) + "</pre>\n")
	case plainLanguages[lang]:
		r.out.WriteString("<pre><code>" + html.EscapeString(code) + "</code></pre>\n")
	default:
		r.out.WriteString(r.highlight(lang, code) + "\n")
	}
}

func (r *blockRenderer) highlight(lang, code string) string {
	if r.rc.Highlighter != nil {
		out, err := r.rc.Highlighter.Highlight(r.ctx, lang, code)
		if err == nil {
			return out
		}
		r.rc.logger().Debug("code block left unhighlighted", "lang", lang, "line", r.rc.line, "error", err)
	}
	return `<pre><code class="language-` + html.EscapeString(lang) + `">` + html.EscapeString(code) + "</code></pre>"
}

func (r *blockRenderer) treeThreshold() float64 {
	if r.rc.TreeThreshold > 0 {
		return r.rc.TreeThreshold
	}
	return DefaultTreeThreshold
}

// isTree reports whether more than threshold of the non-blank lines look like
// a directory tree.
func isTree(lines []string, threshold float64) bool {
	total, tree := 0, 0
	for _, line := range lines {
		if isBlankLine(line) {
			continue
		}
		total++
		if strings.ContainsAny(line, treeRunes) || indentedDashPattern.MatchString(line) {
			tree++
		}
	}
	return total > 0 && float64(tree)/float64(total) > threshold
}
