package inline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// delimRule turns text enclosed by a delimiter run into an HTML element.
type delimRule struct {
	delim string
	open  string
	close string
	// wordBound forbids letters and digits before the opener and after the closer.
	wordBound bool
}

// emphasisRules are applied in order; longer runs first so that ***x*** is
// never read as *(**x**)*.
var emphasisRules = []delimRule{
	{delim: "***", open: "<strong><em>", close: "</em></strong>"},
	{delim: "___", open: "<strong><em>", close: "</em></strong>", wordBound: true},
	{delim: "**", open: "<strong>", close: "</strong>"},
	{delim: "__", open: "<strong>", close: "</strong>", wordBound: true},
	{delim: "*", open: "<em>", close: "</em>"},
	{delim: "_", open: "<em>", close: "</em>", wordBound: true},
	{delim: "~~", open: "<del>", close: "</del>"},
}

func (r delimRule) apply(s string) string {
	if !strings.Contains(s, r.delim) {
		return s
	}

	n := len(r.delim)
	var b strings.Builder
	b.Grow(len(s) + 16)

	i := 0
	for i < len(s) {
		start := r.findOpener(s, i)
		if start < 0 {
			break
		}
		end := r.findCloser(s, start+n)
		if end < 0 {
			b.WriteString(s[i : start+n])
			i = start + n
			continue
		}
		b.WriteString(s[i:start])
		b.WriteString(r.open)
		b.WriteString(s[start+n : end])
		b.WriteString(r.close)
		i = end + n
	}
	b.WriteString(s[i:])
	return b.String()
}

func (r delimRule) findOpener(s string, from int) int {
	for k := from; k < len(s); {
		j := strings.Index(s[k:], r.delim)
		if j < 0 {
			return -1
		}
		pos := k + j
		if r.exactRun(s, pos) && r.canOpen(s, pos) {
			return pos
		}
		k = pos + 1
	}
	return -1
}

func (r delimRule) findCloser(s string, from int) int {
	for k := from; k < len(s); {
		j := strings.Index(s[k:], r.delim)
		if j < 0 {
			return -1
		}
		pos := k + j
		if pos > from && r.exactRun(s, pos) && r.canClose(s, pos) {
			return pos
		}
		k = pos + 1
	}
	return -1
}

// exactRun reports whether the delimiter at pos is not part of a longer run.
func (r delimRule) exactRun(s string, pos int) bool {
	c := r.delim[0]
	n := len(r.delim)
	if pos > 0 && s[pos-1] == c {
		return false
	}
	if pos+n < len(s) && s[pos+n] == c {
		return false
	}
	return true
}

func (r delimRule) canOpen(s string, pos int) bool {
	after, ok := runeAfter(s, pos+len(r.delim))
	if !ok || unicode.IsSpace(after) {
		return false
	}
	if r.wordBound {
		if before, ok := runeBefore(s, pos); ok && isWordRune(before) {
			return false
		}
	}
	return true
}

func (r delimRule) canClose(s string, pos int) bool {
	before, ok := runeBefore(s, pos)
	if !ok || unicode.IsSpace(before) {
		return false
	}
	if r.wordBound {
		if after, ok := runeAfter(s, pos+len(r.delim)); ok && isWordRune(after) {
			return false
		}
	}
	return true
}

func runeBefore(s string, pos int) (rune, bool) {
	if pos <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return r, true
}

func runeAfter(s string, pos int) (rune, bool) {
	if pos >= len(s) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return r, true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
