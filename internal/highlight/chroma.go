// Package highlight wraps syntax highlighting engines behind a small interface.
//
// Chroma is the built-in engine. Retrying wraps any engine that may report
// itself as not ready yet (ErrUnavailable): it retries a fixed number of times
// with a fixed interval, then disables itself for good and logs a warning, so
// that a missing engine degrades to plain code blocks instead of blocking.
package highlight

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Sentinel errors for highlighting.
var (
	ErrUnavailable     = errors.New("highlighter unavailable")
	ErrUnknownLanguage = errors.New("unknown language")
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Highlighter renders source code as highlighted HTML.
type Highlighter interface {
	Highlight(ctx context.Context, lang, code string) (string, error)
}

// Chroma highlights code with chroma using CSS classes, so that the page
// stylesheet (see CSS) controls colors.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// Compile-time interface checks.
var (
	_ Highlighter = (*Chroma)(nil)
	_ Highlighter = (*Retrying)(nil)
)

// NewChroma creates a Chroma highlighter. Unknown style names fall back to
// chroma's default style.
func NewChroma(styleName string) *Chroma {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Chroma{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight returns the highlighted HTML for code written in lang.
// Returns ErrUnknownLanguage if chroma has no lexer for lang.
func (c *Chroma) Highlight(ctx context.Context, lang, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet matching the classes emitted by Highlight.
func (c *Chroma) CSS() (string, error) {
	var buf bytes.Buffer
	if err := c.formatter.WriteCSS(&buf, c.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
