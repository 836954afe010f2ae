package specview

import (
	"errors"
	"fmt"

	"github.com/alnah/go-specview/internal/editmap"
)

// EditKind names an edit operation.
type EditKind = editmap.Kind

// Edit operations.
const (
	EditReplace EditKind = editmap.KindEdit
	EditRemove  EditKind = editmap.KindRemove
	EditToggle  EditKind = editmap.KindToggle
)

// Edit is one user edit against a 0-indexed source line.
type Edit = editmap.Action

// EditLine replaces the text of the 0-indexed line, keeping its heading,
// quote, list and checkbox markers. Out of range lines leave text unchanged.
func EditLine(text string, line int, newText string) string {
	return editmap.EditLine(text, line, newText)
}

// RemoveLine deletes the 0-indexed line.
func RemoveLine(text string, line int) string {
	return editmap.RemoveLine(text, line)
}

// ToggleCheckbox flips the task checkbox on the 0-indexed line.
func ToggleCheckbox(text string, line int) string {
	return editmap.ToggleCheckbox(text, line)
}

// LineContent returns the text of the 0-indexed line without its markers,
// the value EditLine expects back to leave the line unchanged.
func LineContent(text string, line int) (string, bool) {
	return editmap.Content(text, line)
}

// Apply performs e on text. The returned document is text unchanged when an
// error is returned: ErrInvalidAction for an unknown kind and
// ErrLineOutOfRange when e.Line addresses no line.
func Apply(text string, e Edit) (string, error) {
	if !e.Kind.Valid() {
		return text, fmt.Errorf("%w: %q", ErrInvalidAction, e.Kind)
	}
	if !editmap.InRange(text, e.Line) {
		return text, fmt.Errorf("%w: %d", ErrLineOutOfRange, e.Line)
	}
	out, err := editmap.Apply(text, e)
	if errors.Is(err, editmap.ErrUnknownAction) {
		return text, fmt.Errorf("%w: %q", ErrInvalidAction, e.Kind)
	}
	return out, err
}
