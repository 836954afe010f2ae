package specview

import (
	"errors"

	"github.com/alnah/go-specview/internal/highlight"
)

// Sentinel errors for library operations.
var (
	ErrEmptyDocument  = errors.New("document is empty")
	ErrRender         = errors.New("rendering failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")

	// ErrInvalidPageSize indicates an unknown export page size.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrHighlighterUnavailable is returned by a Highlighter that is not ready.
	ErrHighlighterUnavailable = highlight.ErrUnavailable

	// Edit errors.
	ErrInvalidAction  = errors.New("invalid edit action")
	ErrLineOutOfRange = errors.New("line out of range")

	// Signal errors.
	ErrInvalidSignal = errors.New("invalid signal action")
	ErrNoCommand     = errors.New("no command configured")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
)
