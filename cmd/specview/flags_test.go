package main

import (
	"errors"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-specview"
)

// ---------------------------------------------------------------------------
// TestParseRenderFlags - Render command flags
// ---------------------------------------------------------------------------

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	f, rest, err := parseRenderFlags([]string{"-o", "out", "-w", "4", "--json", "--plain", "-q", "--style", "dark", "--no-highlight", "spec.md", "plan.md"})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}
	if f.out != "out" || f.workers != 4 || !f.json || !f.plain || !f.output.quiet {
		t.Errorf("unexpected flags: %+v", f)
	}
	if f.renderer.style != "dark" || !f.renderer.noHighlight {
		t.Errorf("unexpected renderer flags: %+v", f.renderer)
	}
	if len(rest) != 2 || rest[0] != "spec.md" || rest[1] != "plan.md" {
		t.Errorf("rest = %v, want [spec.md plan.md]", rest)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		parse   func([]string) error
		args    []string
		wantErr error
	}{
		{"render unknown flag", renderParser, []string{"--bogus"}, ErrUsage},
		{"render fragment and json", renderParser, []string{"--fragment", "--json"}, ErrUsage},
		{"render bad workers", renderParser, []string{"-w", "many"}, ErrUsage},
		{"render help", renderParser, []string{"--help"}, flag.ErrHelp},
		{"edit bad line", editParser, []string{"--line", "x"}, ErrUsage},
		{"edit help", editParser, []string{"-h"}, flag.ErrHelp},
		{"outline unknown flag", outlineParser, []string{"--tree"}, ErrUsage},
		{"serve unknown flag", serveParser, []string{"--port", "80"}, ErrUsage},
		{"export unknown flag", exportParser, []string{"--scale", "2"}, ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.parse(tt.args); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func renderParser(args []string) error {
	_, _, err := parseRenderFlags(args)
	return err
}

func editParser(args []string) error {
	_, _, err := parseEditFlags(args)
	return err
}

func outlineParser(args []string) error {
	_, _, err := parseOutlineFlags(args)
	return err
}

func serveParser(args []string) error {
	_, _, err := parseServeFlags(args)
	return err
}

func exportParser(args []string) error {
	_, _, err := parseExportFlags(args)
	return err
}

// ---------------------------------------------------------------------------
// TestEditFlags_Edit - Edit flag validation
// ---------------------------------------------------------------------------

func TestEditFlags_Edit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    specview.Edit
		wantErr bool
	}{
		{"toggle", []string{"-l", "3", "--toggle"}, specview.Edit{Kind: specview.EditToggle, Line: 2}, false},
		{"remove", []string{"--line", "1", "--remove"}, specview.Edit{Kind: specview.EditRemove, Line: 0}, false},
		{"replace", []string{"-l", "4", "-t", "New text"}, specview.Edit{Kind: specview.EditReplace, Line: 3, Text: "New text"}, false},
		{"replace with empty text", []string{"-l", "4", "--text", ""}, specview.Edit{Kind: specview.EditReplace, Line: 3}, false},
		{"missing line", []string{"--toggle"}, specview.Edit{}, true},
		{"zero line", []string{"-l", "0", "--toggle"}, specview.Edit{}, true},
		{"no action", []string{"-l", "2"}, specview.Edit{}, true},
		{"two actions", []string{"-l", "2", "--toggle", "--remove"}, specview.Edit{}, true},
		{"text and toggle", []string{"-l", "2", "-t", "x", "--toggle"}, specview.Edit{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, _, err := parseEditFlags(tt.args)
			if err != nil {
				t.Fatalf("parseEditFlags() error = %v", err)
			}

			got, err := f.edit()
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("edit() error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("edit() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("edit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseServeAndExportFlags - Remaining commands
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	f, rest, err := parseServeFlags([]string{"-a", ":9000", "-r", "docs", "-v"})
	if err != nil {
		t.Fatalf("parseServeFlags() error = %v", err)
	}
	if f.addr != ":9000" || f.root != "docs" || !f.output.verbose || len(rest) != 0 {
		t.Errorf("unexpected flags: %+v rest=%v", f, rest)
	}
}

func TestParseExportFlags(t *testing.T) {
	t.Parallel()

	f, rest, err := parseExportFlags([]string{"-p", "a4", "--landscape", "-t", "1m", "-o", "out.pdf", "spec.md"})
	if err != nil {
		t.Fatalf("parseExportFlags() error = %v", err)
	}
	if f.pageSize != "a4" || !f.landscape || f.timeout != "1m" || f.out != "out.pdf" {
		t.Errorf("unexpected flags: %+v", f)
	}
	if len(rest) != 1 || rest[0] != "spec.md" {
		t.Errorf("rest = %v, want [spec.md]", rest)
	}
}
