package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-specview"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// outputFlags controls how much a command prints.
type outputFlags struct {
	quiet   bool
	verbose bool
}

// rendererFlags holds flags that configure the renderer.
type rendererFlags struct {
	config      string
	style       string
	assetPath   string
	noHighlight bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	output   outputFlags
	renderer rendererFlags
	out      string
	workers  int
	fragment bool
	json     bool
	plain    bool
	stdout   bool
}

// editFlags holds all flags for the edit command.
type editFlags struct {
	output  outputFlags
	line    int
	text    string
	toggle  bool
	remove  bool
	dryRun  bool
	textSet bool
}

// outlineFlags holds all flags for the outline command.
type outlineFlags struct {
	json bool
	tree bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	output   outputFlags
	renderer rendererFlags
	addr     string
	root     string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	output    outputFlags
	renderer  rendererFlags
	out       string
	pageSize  string
	landscape bool
	timeout   string
}

// newFlagSet creates a FlagSet that reports errors to the caller instead of
// printing them.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseFlagSet parses args. flag.ErrHelp is returned as is, other errors
// wrap ErrUsage.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// addOutputFlags adds verbosity flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addRendererFlags adds renderer configuration flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.style, "style", "", "page stylesheet name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable syntax highlighting")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := newFlagSet("render")
	f := &renderFlags{}

	fs.StringVarP(&f.out, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.fragment, "fragment", false, "write the HTML fragment without the page")
	fs.BoolVar(&f.json, "json", false, "write the render result as JSON")
	fs.BoolVar(&f.plain, "plain", false, "render as plain CommonMark")
	fs.BoolVar(&f.stdout, "stdout", false, "write a single document to stdout")
	addOutputFlags(fs, &f.output)
	addRendererFlags(fs, &f.renderer)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	if f.fragment && f.json {
		return nil, nil, fmt.Errorf("%w: --fragment and --json are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseEditFlags parses edit command flags and returns positional args.
func parseEditFlags(args []string) (*editFlags, []string, error) {
	fs := newFlagSet("edit")
	f := &editFlags{}

	fs.IntVarP(&f.line, "line", "l", 0, "1-indexed source line")
	fs.StringVarP(&f.text, "text", "t", "", "replace the line's text, keeping its markers")
	fs.BoolVar(&f.toggle, "toggle", false, "toggle the line's task checkbox")
	fs.BoolVar(&f.remove, "remove", false, "remove the line")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "print the edited document instead of writing it")
	addOutputFlags(fs, &f.output)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	f.textSet = fs.Changed("text")
	return f, fs.Args(), nil
}

// edit returns the edit the flags describe. Exactly one of --text, --toggle
// and --remove must be given.
func (f *editFlags) edit() (specview.Edit, error) {
	if f.line < 1 {
		return specview.Edit{}, fmt.Errorf("%w: --line must be a positive line number", ErrUsage)
	}

	var kinds []specview.EditKind
	if f.textSet {
		kinds = append(kinds, specview.EditReplace)
	}
	if f.toggle {
		kinds = append(kinds, specview.EditToggle)
	}
	if f.remove {
		kinds = append(kinds, specview.EditRemove)
	}
	if len(kinds) != 1 {
		return specview.Edit{}, fmt.Errorf("%w: give exactly one of --text, --toggle, --remove", ErrUsage)
	}

	return specview.Edit{Kind: kinds[0], Line: f.line - 1, Text: f.text}, nil
}

// parseOutlineFlags parses outline command flags and returns positional args.
func parseOutlineFlags(args []string) (*outlineFlags, []string, error) {
	fs := newFlagSet("outline")
	f := &outlineFlags{}

	fs.BoolVar(&f.json, "json", false, "print headings as JSON")
	fs.BoolVar(&f.tree, "tree", false, "print headings nested as JSON")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	fs := newFlagSet("serve")
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default from config)")
	fs.StringVarP(&f.root, "root", "r", "", "document root (default: working directory)")
	addOutputFlags(fs, &f.output)
	addRendererFlags(fs, &f.renderer)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := newFlagSet("export")
	f := &exportFlags{}

	fs.StringVarP(&f.out, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: letter, a4, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	addOutputFlags(fs, &f.output)
	addRendererFlags(fs, &f.renderer)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
