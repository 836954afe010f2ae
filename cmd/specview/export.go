package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-specview"
)

// runExport prints documents to PDF through headless Chrome.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseExportFlags(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	log := newLogger(env.Stderr, flags.output, slog.LevelWarn)
	r, cfg, _, err := newRenderer(&flags.renderer, log, env)
	if err != nil {
		return err
	}

	page, err := resolvePageSettings(flags, cfg.Export.PageSize, cfg.Export.Landscape)
	if err != nil {
		return err
	}
	timeout, err := cfg.Export.TimeoutDuration()
	if err != nil {
		return err
	}
	if flags.timeout != "" {
		if timeout, err = parseTimeout(flags.timeout); err != nil {
			return err
		}
	}

	var files []FileToRender
	for _, input := range inputs {
		found, err := discoverFiles(input, flags.out, ".pdf")
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no Markdown files in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	exporter := specview.NewExporter(r, timeout)
	defer func() { _ = exporter.Close() }()

	// One browser serves every file, so files are printed in sequence.
	results := make([]RenderResult, 0, len(files))
	for _, f := range files {
		results = append(results, exportFile(ctx, exporter, f, page))
	}
	if failed := printResults(results, flags.output, env); failed > 0 {
		return fmt.Errorf("%d of %d documents failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// exportFile prints one document to its output path.
func exportFile(ctx context.Context, e *specview.Exporter, f FileToRender, page *specview.PageSettings) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

	result.Err = func() error {
		content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return fmt.Errorf("%w: %s", specview.ErrEmptyDocument, f.InputPath)
		}
		pdf, err := e.Export(ctx, specview.Input{Markdown: string(content), Path: f.InputPath}, page)
		if err != nil {
			return err
		}
		return writeOutput(f.OutputPath, pdf)
	}()

	result.Duration = time.Since(start)
	return result
}

// resolvePageSettings merges the page flags over the configured page.
func resolvePageSettings(flags *exportFlags, size string, landscape bool) (*specview.PageSettings, error) {
	if flags.pageSize != "" {
		size = flags.pageSize
	}
	size = strings.ToLower(size)
	switch size {
	case "", "letter", "a4", "legal":
	default:
		return nil, fmt.Errorf("%w: %q (must be letter, a4, or legal)", specview.ErrInvalidPageSize, size)
	}
	return &specview.PageSettings{Size: size, Landscape: landscape || flags.landscape}, nil
}

// parseTimeout parses a positive Go duration.
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: --timeout %q is not a positive duration", ErrUsage, s)
	}
	return d, nil
}
