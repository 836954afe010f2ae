package specview

import (
	"context"
	"log/slog"
	"time"

	"github.com/alnah/go-specview/internal/dom"
	"github.com/alnah/go-specview/internal/outline"
)

// Input contains the document to render and per-render options.
type Input struct {
	Markdown string // source document
	Path     string // optional, used for the page title, document kind and relative paths

	Page         bool // wrap the fragment in a complete HTML page
	Plain        bool // render as GitHub flavored Markdown without line addressing
	ResolvePaths bool // turn relative links and images into file:// URLs (needs Path)
}

// Result contains the output of a render.
type Result struct {
	HTML      string       `json:"html"`      // fragment, or full page when Input.Page is set
	Blocks    []Block      `json:"blocks"`    // line-addressable blocks in document order
	Outline   []Heading    `json:"outline"`   // headings with their source lines
	Scenarios int          `json:"scenarios"` // acceptance scenario tables produced
	Kind      DocumentKind `json:"kind"`
}

// Block is one line-addressable element of a rendered document.
type Block = dom.Block

// Heading is one heading of a document.
type Heading = outline.Heading

// OutlineNode is a heading with the headings nested under it.
type OutlineNode = outline.Node

// LineType is the structural classification of a block.
type LineType = dom.LineType

// Line types.
const (
	LineUserStory  = dom.LineUserStory
	LineAcceptance = dom.LineAcceptance
	LineTask       = dom.LineTask
	LineSection    = dom.LineSection
	LineParagraph  = dom.LineParagraph
)

// Highlighter renders source code as highlighted HTML. An implementation that
// is not ready yet returns an error wrapping ErrHighlighterUnavailable; it is
// retried, then disabled for the lifetime of the Renderer.
type Highlighter interface {
	Highlight(ctx context.Context, lang, code string) (string, error)
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	assetPath      string
	style          string
	highlightStyle string
	noHighlight    bool
	highlighter    Highlighter
	retries        int
	retryInterval  time.Duration
	extraExts      []string
	treeThreshold  float64
	commands       Commands
}

// WithLogger sets the logger for warnings such as a highlighter giving up.
func WithLogger(log *slog.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithAssetPath sets a directory searched for styles, scripts and templates
// before the embedded assets.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithStyle selects the page stylesheet by name.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.style = name
	}
}

// WithHighlightStyle selects the chroma style for code blocks.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = name
	}
}

// WithHighlighter replaces the built-in chroma highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(r *Renderer) {
		r.cfg.highlighter = h
	}
}

// WithoutHighlighting renders every code block as plain text.
func WithoutHighlighting() Option {
	return func(r *Renderer) {
		r.cfg.noHighlight = true
	}
}

// WithRetry sets how often an unavailable highlighter is retried before it is
// disabled. Non-positive attempts keep the default.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.retries = attempts
		r.cfg.retryInterval = interval
	}
}

// WithExtraExtensions adds file extensions recognized as file references in
// code spans, given without the dot.
func WithExtraExtensions(exts ...string) Option {
	return func(r *Renderer) {
		r.cfg.extraExts = append(r.cfg.extraExts, exts...)
	}
}

// WithTreeThreshold sets the share of non-blank lines that must look like a
// directory tree for a code block to render as one.
// Panics if t is not in (0, 1) (programmer error, similar to time.NewTicker).
func WithTreeThreshold(t float64) Option {
	if t <= 0 || t >= 1 {
		panic("specview: WithTreeThreshold value must be between 0 and 1")
	}
	return func(r *Renderer) {
		r.cfg.treeThreshold = t
	}
}

// WithCommands sets the host commands emitted by Signal.
func WithCommands(c Commands) Option {
	return func(r *Renderer) {
		r.cfg.commands = c
	}
}
