// Package export prints rendered documents to PDF with headless Chrome.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-specview/internal/fileutil"
	"github.com/alnah/go-specview/internal/process"
)

// Sentinel errors for PDF export.
var (
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// DefaultTimeout bounds page loading when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// Page sizes in inches, portrait.
var pageSizes = map[string][2]float64{
	"letter": {8.5, 11},
	"a4":     {8.27, 11.69},
	"legal":  {8.5, 14},
}

const marginInches = 0.5

// Options controls the printed page.
type Options struct {
	PageSize  string // "letter" (default), "a4", "legal"
	Landscape bool
}

// Validate checks the page size.
func (o *Options) Validate() error {
	if o == nil || o.PageSize == "" {
		return nil
	}
	if _, ok := pageSizes[strings.ToLower(o.PageSize)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, o.PageSize)
	}
	return nil
}

// pdfRenderer prints a local HTML file; swapped out in tests.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *Options) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// Exporter converts HTML pages to PDF. The browser is started on first use
// and reused until Close. Safe for concurrent use.
type Exporter struct {
	renderer pdfRenderer
}

// New creates an Exporter backed by go-rod. Rod downloads Chromium on first
// run unless ROD_BROWSER_BIN points at an installed browser.
func New(timeout time.Duration) *Exporter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exporter{renderer: &rodRenderer{timeout: timeout}}
}

// ToPDF prints htmlContent. The page is written to a temp file so that
// file:// resources resolve the same way as in the preview.
func (e *Exporter) ToPDF(ctx context.Context, htmlContent string, opts *Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return e.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases the browser.
func (e *Exporter) Close() error {
	if e.renderer != nil {
		return e.renderer.Close()
	}
	return nil
}

// rodRenderer renders through a lazily launched headless Chrome.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killBrowser(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		killBrowser(r.launcher)
		r.launcher = nil
	}
	return err
}

// killBrowser terminates Chrome with its helper processes and removes its
// profile directory.
func killBrowser(l *launcher.Launcher) {
	if pid := l.PID(); pid > 0 {
		process.KillTree(pid)
	}
	l.Kill()
	l.Cleanup()
}

// RenderFromFile opens filePath in a new tab and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(printOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// printOptions builds the Chrome print settings for opts.
func printOptions(opts *Options) *proto.PagePrintToPDF {
	size := pageSizes["letter"]
	landscape := false
	if opts != nil {
		if s, ok := pageSizes[strings.ToLower(opts.PageSize)]; ok {
			size = s
		}
		landscape = opts.Landscape
	}

	width, height := size[0], size[1]
	if landscape {
		width, height = height, width
	}

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
