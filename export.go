package specview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-specview/internal/export"
)

// PageSettings controls the printed page of an export.
type PageSettings struct {
	Size      string // "letter" (default), "a4", "legal"
	Landscape bool
}

// pdfPrinter prints complete HTML pages; swapped out in tests.
type pdfPrinter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *export.Options) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfPrinter = (*export.Exporter)(nil)

// Exporter renders documents as pages and prints them to PDF with headless
// Chrome. Create with NewExporter and Close when done.
type Exporter struct {
	renderer *Renderer
	printer  pdfPrinter
}

// NewExporter creates an Exporter printing pages rendered by r. A
// non-positive timeout uses the default.
func NewExporter(r *Renderer, timeout time.Duration) *Exporter {
	return &Exporter{renderer: r, printer: export.New(timeout)}
}

// Export renders in as a full page with local paths resolved and prints it.
func (e *Exporter) Export(ctx context.Context, in Input, page *PageSettings) ([]byte, error) {
	in.Page = true
	in.ResolvePaths = true

	result, err := e.renderer.Render(ctx, in)
	if err != nil {
		return nil, err
	}

	opts := &export.Options{}
	if page != nil {
		opts.PageSize = page.Size
		opts.Landscape = page.Landscape
	}

	pdf, err := e.printer.ToPDF(ctx, result.HTML, opts)
	if err != nil {
		return nil, exportError(err)
	}
	return pdf, nil
}

// Close releases the browser.
func (e *Exporter) Close() error {
	if e.printer != nil {
		return e.printer.Close()
	}
	return nil
}

// exportError maps export failures onto the library's sentinel errors.
func exportError(err error) error {
	switch {
	case errors.Is(err, export.ErrBrowserConnect):
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	case errors.Is(err, export.ErrInvalidPageSize):
		return fmt.Errorf("%w: %v", ErrInvalidPageSize, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
}
