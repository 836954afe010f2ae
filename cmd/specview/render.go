package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/fileutil"
)

// File permission constants.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// maxWorkers caps parallel renders.
const maxWorkers = 32

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read document")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// renderMode selects what render writes.
type renderMode int

const (
	modePage renderMode = iota
	modeFragment
	modeJSON
)

func (m renderMode) ext() string {
	if m == modeJSON {
		return ".json"
	}
	return ".html"
}

// FileToRender is one discovered document and its output path.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runRender renders documents to HTML or JSON files.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseRenderFlags(args)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	log := newLogger(env.Stderr, flags.output, slog.LevelWarn)
	r, _, vars, err := newRenderer(&flags.renderer, log, env)
	if err != nil {
		return err
	}

	mode := modePage
	switch {
	case flags.fragment:
		mode = modeFragment
	case flags.json:
		mode = modeJSON
	}

	var files []FileToRender
	for _, input := range inputs {
		found, err := discoverFiles(input, flags.out, mode.ext())
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no Markdown files in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	if flags.stdout {
		if len(files) != 1 {
			return fmt.Errorf("%w: --stdout needs exactly one document, found %d", ErrUsage, len(files))
		}
		data, err := renderDocument(ctx, r, files[0].InputPath, mode, flags.plain)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	workers := resolveWorkers(flags.workers, vars.Workers)
	log.Debug("rendering", "files", len(files), "workers", workers)

	results := renderBatch(ctx, r, files, mode, flags.plain, workers)
	if failed := printResults(results, flags.output, env); failed > 0 {
		return fmt.Errorf("%d of %d documents failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// renderBatch renders files concurrently, at most workers at a time.
// One failure does not stop the others.
func renderBatch(ctx context.Context, r *specview.Renderer, files []FileToRender, mode renderMode, plain bool, workers int) []RenderResult {
	results := make([]RenderResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = renderFile(ctx, r, f, mode, plain)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// renderFile renders one document and writes it to its output path.
func renderFile(ctx context.Context, r *specview.Renderer, f FileToRender, mode renderMode, plain bool) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

	data, err := renderDocument(ctx, r, f.InputPath, mode, plain)
	if err == nil {
		err = writeOutput(f.OutputPath, data)
	}
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

// renderDocument reads the document at path and renders it in mode.
func renderDocument(ctx context.Context, r *specview.Renderer, path string, mode renderMode, plain bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return nil, fmt.Errorf("%w: %s", specview.ErrEmptyDocument, path)
	}

	result, err := r.Render(ctx, specview.Input{
		Markdown:     string(content),
		Path:         path,
		Page:         mode == modePage,
		Plain:        plain,
		ResolvePaths: mode == modePage,
	})
	if err != nil {
		return nil, err
	}

	if mode == modeJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return []byte(result.HTML), nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printResults reports each result and returns the number of failures.
func printResults(results []RenderResult, out outputFlags, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if out.quiet {
			continue
		}

		if out.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !out.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

func firstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// discoverFiles finds the Markdown documents under inputPath. A directory is
// walked recursively and its layout mirrored under outputDir.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileToRender{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileToRender{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a Markdown file.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	if strings.HasSuffix(outputDir, ext) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+ext)
		}
	}

	return filepath.Join(outputDir, base+ext)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers picks the worker count.
// Priority: explicit flag > SPECVIEW_WORKERS > GOMAXPROCS.
func resolveWorkers(flagWorkers, envWorkers int) int {
	switch {
	case flagWorkers > 0:
		return flagWorkers
	case envWorkers > 0:
		return min(envWorkers, maxWorkers)
	}
	// Adjusted by automaxprocs for containers.
	return min(max(runtime.GOMAXPROCS(0), 1), maxWorkers)
}
