// Package outline extracts the heading structure of a document.
//
// Headings come from goldmark's block parser, so ATX and setext headings are
// recognized and anything inside fenced code or HTML blocks is not. Anchor ids
// are goldmark's auto heading ids.
package outline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading of a document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
	Line  int    `json:"line"` // 1-indexed source line
}

// Node is a heading with the headings nested under it.
type Node struct {
	Heading
	Children []*Node `json:"children,omitempty"`
}

var md = goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))

// Parse returns the headings of source in document order.
func Parse(source string) []Heading {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		heading := Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(plainText(h, src)),
			Line:  bytes.Count(src[:h.Lines().At(0).Start], []byte("\n")) + 1,
		}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				heading.ID = string(b)
			}
		}
		headings = append(headings, heading)
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// IDs maps each heading's source line to its anchor id.
func IDs(headings []Heading) map[int]string {
	ids := make(map[int]string, len(headings))
	for _, h := range headings {
		if h.ID != "" {
			ids[h.Line] = h.ID
		}
	}
	return ids
}

// Tree nests headings by level. A heading becomes a child of the closest
// preceding heading with a lower level.
func Tree(headings []Heading) []*Node {
	root := &Node{}
	type entry struct {
		node  *Node
		level int
	}
	stack := []entry{{node: root, level: 0}}

	for _, h := range headings {
		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		n := &Node{Heading: h}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, entry{node: n, level: h.Level})
	}
	return root.Children
}

// plainText concatenates the text segments under n.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(plainText(c, src))
		}
	}
	return buf.String()
}
