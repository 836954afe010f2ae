package pipeline

import (
	"io"
	"log/slog"

	"github.com/alnah/go-specview/internal/highlight"
	"github.com/alnah/go-specview/internal/inline"
)

// DefaultTreeThreshold is the share of non-blank lines that must look like a
// directory tree for a code block to be rendered as one.
const DefaultTreeThreshold = 0.3

// Context carries the state of one top-level render through every stage.
// Counters start from zero after Reset, so rendering the same document twice
// produces identical output. A Context must not be shared by concurrent renders.
type Context struct {
	Log           *slog.Logger
	Inline        *inline.Parser
	Highlighter   highlight.Highlighter // nil disables highlighting
	HeadingIDs    map[int]string        // source line -> heading anchor id
	TreeThreshold float64

	tableSeq int
	line     int
}

// NewContext returns a Context with default collaborators and no highlighter.
func NewContext() *Context {
	return &Context{
		Log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		Inline:        inline.New(),
		TreeThreshold: DefaultTreeThreshold,
	}
}

// Reset clears the per-render counters.
func (c *Context) Reset() {
	c.tableSeq = 0
	c.line = 0
}

// NextTableID returns the next scenario table id (1, 2, ...).
func (c *Context) NextTableID() int {
	c.tableSeq++
	return c.tableSeq
}

// Tables returns how many scenario tables the current render produced.
func (c *Context) Tables() int {
	return c.tableSeq
}

// Line returns the 1-indexed preprocessed line the block renderer is scanning.
func (c *Context) Line() int {
	return c.line
}

func (c *Context) parseInline(s string) string {
	if c.Inline == nil {
		return inline.Parse(s)
	}
	return c.Inline.Parse(s)
}

func (c *Context) logger() *slog.Logger {
	if c.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Log
}
