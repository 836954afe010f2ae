package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ErrHTMLConversion indicates plain Markdown conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter converts a whole document to an HTML fragment.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// PlainConverter renders documents outside the spec dialect as GitHub
// flavored Markdown with goldmark. Its output has no line addressing.
type PlainConverter struct {
	md goldmark.Markdown
}

// Compile-time interface check.
var _ HTMLConverter = (*PlainConverter)(nil)

// NewPlainConverter creates a PlainConverter highlighting code with the named
// chroma style. Raw HTML in the source is not rendered.
func NewPlainConverter(style string) *PlainConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &PlainConverter{md: md}
}

// ToHTML converts content to an HTML fragment. goldmark has no context
// support, so conversion runs in a goroutine and ctx is honored on return.
func (c *PlainConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
