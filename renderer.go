package specview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/alnah/go-specview/internal/assets"
	"github.com/alnah/go-specview/internal/dom"
	"github.com/alnah/go-specview/internal/highlight"
	"github.com/alnah/go-specview/internal/inline"
	"github.com/alnah/go-specview/internal/outline"
	"github.com/alnah/go-specview/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.SpecPreprocessor)(nil)
	_ pipeline.BlockRenderer        = pipeline.LineRenderer{}
	_ pipeline.HTMLConverter        = (*pipeline.PlainConverter)(nil)
	_ pipeline.PageAssembler        = (*pipeline.PageTemplate)(nil)
	_ highlight.Highlighter         = (Highlighter)(nil)
)

// defaultTitle is the page title of a document without heading or path.
const defaultTitle = "specview"

// Renderer turns specification documents into line-addressable HTML.
// Create with NewRenderer. A Renderer is safe for concurrent use: every
// Render call gets its own render context.
type Renderer struct {
	cfg          rendererConfig
	log          *slog.Logger
	inline       *inline.Parser
	highlighter  highlight.Highlighter // nil when highlighting is off
	highlightCSS string
	bundle       *assets.Bundle
	preprocessor pipeline.MarkdownPreprocessor
	blocks       pipeline.BlockRenderer
	plain        pipeline.HTMLConverter
	page         pipeline.PageAssembler
}

// NewRenderer creates a Renderer with default configuration.
// Returns ErrInvalidAssetPath if WithAssetPath names an unusable directory
// and ErrStyleNotFound if the page stylesheet does not exist.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			highlightStyle: highlight.DefaultStyle,
			retries:        highlight.DefaultRetries,
			retryInterval:  highlight.DefaultRetryInterval,
			treeThreshold:  pipeline.DefaultTreeThreshold,
			commands:       DefaultCommands(),
		},
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		preprocessor: &pipeline.SpecPreprocessor{},
		blocks:       pipeline.LineRenderer{},
	}

	for _, opt := range opts {
		opt(r)
	}

	resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	r.bundle, err = assets.LoadBundle(resolver, r.cfg.style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, r.cfg.style)
		}
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	r.page, err = pipeline.NewPageTemplate(r.bundle.Template)
	if err != nil {
		return nil, fmt.Errorf("initializing page template: %w", err)
	}

	chroma := highlight.NewChroma(r.cfg.highlightStyle)
	r.highlightCSS, err = chroma.CSS()
	if err != nil {
		return nil, err
	}
	if !r.cfg.noHighlight {
		var engine highlight.Highlighter = chroma
		if r.cfg.highlighter != nil {
			engine = r.cfg.highlighter
		}
		r.highlighter = highlight.WithRetry(engine, r.cfg.retries, r.cfg.retryInterval, r.log)
	}

	r.inline = inline.New(r.cfg.extraExts...)
	r.plain = pipeline.NewPlainConverter(r.cfg.highlightStyle)

	return r, nil
}

// Render converts in.Markdown and returns the HTML together with its blocks
// and outline. Rendering the same input twice gives identical output.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRender, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headings := outline.Parse(in.Markdown)
	result = &Result{Outline: headings, Kind: DetectKind(in.Path)}

	var fragment string
	if in.Plain {
		fragment, err = r.plain.ToHTML(ctx, in.Markdown)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
	} else {
		rc := r.newContext(headings)
		text := r.preprocessor.Preprocess(ctx, rc, in.Markdown)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fragment, err = r.blocks.RenderBlocks(ctx, rc, text)
		if err != nil {
			return nil, err
		}
		result.Scenarios = rc.Tables()
	}

	if in.ResolvePaths && in.Path != "" {
		fragment, err = pipeline.ResolveLocalPaths(fragment, filepath.Dir(in.Path))
		if err != nil {
			return nil, fmt.Errorf("%w: resolving paths: %v", ErrRender, err)
		}
	}

	if !in.Plain {
		result.Blocks, err = dom.Blocks(fragment)
		if err != nil {
			return nil, fmt.Errorf("%w: reading blocks: %v", ErrRender, err)
		}
	}

	if !in.Page {
		result.HTML = fragment
		return result, nil
	}

	result.HTML, err = r.page.Assemble(ctx, &pipeline.PageData{
		Title:        pageTitle(headings, in.Path),
		Path:         in.Path,
		CSS:          r.bundle.CSS,
		HighlightCSS: r.highlightCSS,
		Script:       r.bundle.Script,
		Body:         fragment,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return result, nil
}

// Outline returns the headings of source without rendering it.
func Outline(source string) []Heading {
	return outline.Parse(source)
}

// OutlineTree returns the headings of source nested by level.
func OutlineTree(source string) []*OutlineNode {
	return outline.Tree(outline.Parse(source))
}

// HighlightDisabled reports whether the highlighter was given up on or
// switched off.
func (r *Renderer) HighlightDisabled() bool {
	if r.highlighter == nil {
		return true
	}
	if rt, ok := r.highlighter.(*highlight.Retrying); ok {
		return rt.Disabled()
	}
	return false
}

// newContext creates the state of one render.
func (r *Renderer) newContext(headings []Heading) *pipeline.Context {
	rc := pipeline.NewContext()
	rc.Log = r.log
	rc.Inline = r.inline
	rc.HeadingIDs = outline.IDs(headings)
	rc.TreeThreshold = r.cfg.treeThreshold
	if r.highlighter != nil {
		rc.Highlighter = r.highlighter
	}
	return rc
}

// pageTitle picks the first level-one heading, then the file name.
func pageTitle(headings []Heading, path string) string {
	for _, h := range headings {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	if path != "" {
		return filepath.Base(path)
	}
	return defaultTitle
}
