package pipeline

import "context"

// Pass is one whole-document rewrite applied before block rendering.
// A pass that finds nothing to rewrite returns its input.
type Pass func(rc *Context, t *Text) *Text

// MarkdownPreprocessor abstracts the text passes run before block rendering.
type MarkdownPreprocessor interface {
	Preprocess(ctx context.Context, rc *Context, content string) *Text
}

// DefaultPasses is the fixed pass order.
var DefaultPasses = []Pass{
	StripComments,
	CollapseMetadata,
	ConvertUserStories,
	ExtractScenarios,
	ConvertCallouts,
}

// SpecPreprocessor applies Passes in order after normalizing line endings.
type SpecPreprocessor struct {
	Passes []Pass // nil means DefaultPasses
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*SpecPreprocessor)(nil)

// Preprocess splits content into a Text and runs every pass over it.
// If ctx is already canceled the content is returned split but otherwise
// unchanged.
func (p *SpecPreprocessor) Preprocess(ctx context.Context, rc *Context, content string) *Text {
	t := NewText(normalizeLineEndings(content))
	if ctx.Err() != nil {
		return t
	}

	passes := p.Passes
	if passes == nil {
		passes = DefaultPasses
	}
	for _, pass := range passes {
		if ctx.Err() != nil {
			return t
		}
		t = pass(rc, t)
	}
	return t
}

// normalizeLineEndings converts CRLF to LF and drops lone CRs. Lines are only
// ever split on LF so the origin map agrees with the edit mapper.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllStringFunc(content, func(m string) string {
		if m == "\r\n" {
			return "\n"
		}
		return ""
	})
}
