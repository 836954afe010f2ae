// Package editmap applies line-level edits to a source document.
//
// Lines are addressed by their 0-indexed position in the source split on
// "\n". Every operation returns the whole new document; an address outside the
// document leaves it unchanged. A line's structural prefix (indentation,
// heading or quote marker, bullet or ordinal, checkbox) survives an edit, so
// replacing a line with its own Content reproduces the document byte for byte.
package editmap

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnknownAction indicates an Action with an unsupported Kind.
var ErrUnknownAction = errors.New("unknown edit action")

var (
	prefixPattern   = regexp.MustCompile(`^(\s*(?:#{1,6}\s+|>\s?)?(?:[-*+]\s+|\d+[.)]\s+)?(?:\[[ xX]\]\s+)?)`)
	checkboxPattern = regexp.MustCompile(`^(\s*(?:[-*+]|\d+[.)])\s+\[)([ xX])(\])`)
	newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// Kind names an edit operation.
type Kind string

// Edit operations.
const (
	KindEdit   Kind = "edit"
	KindRemove Kind = "remove"
	KindToggle Kind = "toggle"
)

// Valid reports whether k is a known operation.
func (k Kind) Valid() bool {
	switch k {
	case KindEdit, KindRemove, KindToggle:
		return true
	}
	return false
}

// Action is one user edit against a source line.
type Action struct {
	Kind Kind   `json:"action"`
	Line int    `json:"line"`
	Text string `json:"text,omitempty"`
}

// Apply performs a on text.
func Apply(text string, a Action) (string, error) {
	switch a.Kind {
	case KindEdit:
		return EditLine(text, a.Line, a.Text), nil
	case KindRemove:
		return RemoveLine(text, a.Line), nil
	case KindToggle:
		return ToggleCheckbox(text, a.Line), nil
	default:
		return text, ErrUnknownAction
	}
}

// InRange reports whether line addresses a line of text.
func InRange(text string, line int) bool {
	return line >= 0 && line < strings.Count(text, "\n")+1
}

// Prefix returns the structural prefix of a single line.
func Prefix(line string) string {
	return prefixPattern.FindString(line)
}

// Content returns the text of line after its structural prefix.
func Content(text string, line int) (string, bool) {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return "", false
	}
	body, _ := splitCR(lines[line])
	return body[len(Prefix(body)):], true
}

// EditLine replaces the content of line with newText, keeping the line's
// prefix. Newlines in newText become spaces.
func EditLine(text string, line int, newText string) string {
	return mapLine(text, line, func(body string) string {
		return Prefix(body) + newlineReplacer.Replace(newText)
	})
}

// RemoveLine deletes line.
func RemoveLine(text string, line int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return text
	}
	return strings.Join(append(lines[:line:line], lines[line+1:]...), "\n")
}

// ToggleCheckbox flips the task checkbox on line. Lines without one are left
// alone.
func ToggleCheckbox(text string, line int) string {
	return mapLine(text, line, func(body string) string {
		m := checkboxPattern.FindStringSubmatchIndex(body)
		if m == nil {
			return body
		}
		mark := "x"
		if body[m[4]:m[5]] != " " {
			mark = " "
		}
		return body[:m[4]] + mark + body[m[5]:]
	})
}

// mapLine rewrites one line with fn. A trailing "\r" is kept out of fn's view
// and restored afterwards.
func mapLine(text string, line int, fn func(body string) string) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return text
	}
	body, cr := splitCR(lines[line])
	updated := fn(body) + cr
	if updated == lines[line] {
		return text
	}
	lines[line] = updated
	return strings.Join(lines, "\n")
}

func splitCR(line string) (body, cr string) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r"
	}
	return line, ""
}
