package main

// Notes:
// - Rendering runs with --no-highlight so output does not depend on chroma
//   lexer coverage.
// - The document fixtures are task lists: every block carries a data-line
//   attribute that can be checked without parsing the page.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-specview"
)

const tasksDoc = "# Tasks\n\n- [ ] T001 Create the index\n- [x] T002 Add filters\n"

// ---------------------------------------------------------------------------
// TestRunRender - End to end rendering through run
// ---------------------------------------------------------------------------

func TestRunRender_Page(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "tasks.md", tasksDoc)
	env, stdout, stderr := testEnv(nil)

	code := run(context.Background(), args("render", "--no-highlight", input), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	out := filepath.Join(dir, "tasks.html")
	assertContains(t, stdout.String(), "Created "+out)
	html := readFile(t, out)
	assertContains(t, html, "<html")
	assertContains(t, html, "<title>Tasks</title>")
	assertContains(t, html, `data-line="3"`)
}

func TestRunRender_Stdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "tasks.md", tasksDoc)

	t.Run("fragment", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(nil)
		code := run(context.Background(), args("render", "--no-highlight", "--stdout", "--fragment", input), env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		got := stdout.String()
		assertContains(t, got, `data-line="4"`)
		if strings.Contains(got, "<html") {
			t.Error("fragment contains a page wrapper")
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv(nil)
		code := run(context.Background(), args("render", "--no-highlight", "--stdout", "--json", input), env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}

		var result specview.Result
		if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
		}
		if result.Kind != specview.KindTasks {
			t.Errorf("Kind = %q, want %q", result.Kind, specview.KindTasks)
		}
		if len(result.Blocks) != 2 {
			t.Fatalf("len(Blocks) = %d, want 2", len(result.Blocks))
		}
		if result.Blocks[0].Line != 3 || result.Blocks[0].Checked {
			t.Errorf("Blocks[0] = %+v, want unchecked line 3", result.Blocks[0])
		}
		if result.Blocks[1].Line != 4 || !result.Blocks[1].Checked {
			t.Errorf("Blocks[1] = %+v, want checked line 4", result.Blocks[1])
		}
	})

	t.Run("directory rejected", func(t *testing.T) {
		t.Parallel()
		batch := t.TempDir()
		writeFile(t, batch, "a.md", tasksDoc)
		writeFile(t, batch, "b.md", tasksDoc)

		env, _, stderr := testEnv(nil)
		code := run(context.Background(), args("render", "--stdout", batch), env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		assertContains(t, stderr.String(), "--stdout needs exactly one document")
	})
}

func TestRunRender_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "specs")
	writeFile(t, in, "tasks.md", tasksDoc)
	writeFile(t, in, "feature/spec.md", "# Feature\n\nReaders browse the catalog.\n")
	writeFile(t, in, "notes.txt", "not markdown")
	out := filepath.Join(dir, "site")

	env, stdout, stderr := testEnv(nil)
	code := run(context.Background(), args("render", "--no-highlight", "--json", "-w", "2", "-o", out, in), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	for _, rel := range []string{"tasks.json", "feature/spec.json"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "notes.json")); !os.IsNotExist(err) {
		t.Error("non-Markdown file was rendered")
	}
	assertContains(t, stdout.String(), "2 succeeded, 0 failed")
}

func TestRunRender_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "good.md", tasksDoc)
	writeFile(t, dir, "empty.md", "  \n\n")

	env, stdout, stderr := testEnv(nil)
	code := run(context.Background(), args("render", "--no-highlight", "--fragment", dir), env)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	assertContains(t, stderr.String(), "FAILED "+filepath.Join(dir, "empty.md"))
	assertContains(t, stdout.String(), "1 succeeded, 1 failed")

	if _, err := os.Stat(filepath.Join(dir, "good.html")); err != nil {
		t.Errorf("good document not rendered: %v", err)
	}
}

func TestRunRender_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "text")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no input", []string{"render"}, ExitIO},
		{"missing file", []string{"render", filepath.Join(dir, "nope.md")}, ExitIO},
		{"wrong extension", []string{"render", txt}, ExitUsage},
		{"too many workers", []string{"render", "-w", "99", txt}, ExitUsage},
		{"empty directory", []string{"render", t.TempDir()}, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(nil)
			if code := run(context.Background(), args(tt.args...), env); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input expansion
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	single := writeFile(t, dir, "spec.md", "# Spec\n")
	writeFile(t, dir, "nested/plan.markdown", "# Plan\n")
	writeFile(t, dir, "nested/readme.txt", "skip")

	t.Run("single file", func(t *testing.T) {
		t.Parallel()
		files, err := discoverFiles(single, "", ".html")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		want := FileToRender{InputPath: single, OutputPath: filepath.Join(dir, "spec.html")}
		if len(files) != 1 || files[0] != want {
			t.Errorf("files = %+v, want [%+v]", files, want)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		out := filepath.Join(dir, "out")
		files, err := discoverFiles(dir, out, ".json")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		got := map[string]string{}
		for _, f := range files {
			got[f.InputPath] = f.OutputPath
		}
		want := map[string]string{
			single: filepath.Join(out, "spec.json"),
			filepath.Join(dir, "nested", "plan.markdown"): filepath.Join(out, "nested", "plan.json"),
		}
		if len(got) != len(want) {
			t.Fatalf("files = %v, want %v", got, want)
		}
		for in, wantOut := range want {
			if got[in] != wantOut {
				t.Errorf("output for %s = %q, want %q", in, got[in], wantOut)
			}
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := discoverFiles(filepath.Join(dir, "missing.md"), "", ".html")
		if !errors.Is(err, ErrReadInput) {
			t.Errorf("error = %v, want ErrReadInput", err)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()
		_, err := discoverFiles(filepath.Join(dir, "nested", "readme.txt"), "", ".html")
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output naming
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		outDir  string
		baseDir string
		ext     string
		want    string
	}{
		{"next to input", filepath.Join("docs", "spec.md"), "", "", ".html", filepath.Join("docs", "spec.html")},
		{"json next to input", "plan.markdown", "", "", ".json", "plan.json"},
		{"explicit file", "spec.md", "site/index.html", "", ".html", "site/index.html"},
		{"output directory", filepath.Join("docs", "spec.md"), "site", "", ".html", filepath.Join("site", "spec.html")},
		{"mirrored tree", filepath.Join("docs", "a", "spec.md"), "site", "docs", ".pdf", filepath.Join("site", "a", "spec.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveOutputPath(tt.input, tt.outDir, tt.baseDir, tt.ext); got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWorkers - Worker count validation and resolution
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"auto", 0, false},
		{"one", 1, false},
		{"maximum", maxWorkers, false},
		{"negative", -1, true},
		{"above maximum", maxWorkers + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateWorkers(tt.n)
			if tt.wantErr != (err != nil) {
				t.Fatalf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
				t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
			}
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		flag int
		env  int
		want int
	}{
		{"flag wins", 4, 8, 4},
		{"env used", 0, 3, 3},
		{"env capped", 0, 100, maxWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveWorkers(tt.flag, tt.env); got != tt.want {
				t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flag, tt.env, got, tt.want)
			}
		})
	}

	t.Run("auto", func(t *testing.T) {
		t.Parallel()
		if got := resolveWorkers(0, 0); got < 1 || got > maxWorkers {
			t.Errorf("resolveWorkers(0, 0) = %d, want 1..%d", got, maxWorkers)
		}
	})
}
