package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-specview/internal/fileutil"
)

// ---------------------------------------------------------------------------
// ValidateExtension and WriteTempFile
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "html", extension: "html"},
		{name: "empty", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: `..\windows`, wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "html\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := fileutil.ValidateExtension(tt.extension); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<html><body>preview</body></html>"
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !strings.Contains(filepath.Base(path), "specview-") || !strings.HasSuffix(path, ".html") {
		t.Errorf("path = %q, want specview-*.html", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", data, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("content", "")
	if cleanup != nil {
		t.Error("cleanup returned on error")
	}
	if !errors.Is(err, fileutil.ErrExtensionEmpty) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionEmpty", err)
	}
}

// ---------------------------------------------------------------------------
// WriteFileAtomic
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "spec.md")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := fileutil.WriteFileAtomic(path, []byte("new content")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "new content" {
		t.Errorf("content = %q, want %q", data, "new content")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %v, want 0600 kept", info.Mode().Perm())
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	err := fileutil.WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "a.md"), []byte("x"))
	if err == nil {
		t.Fatal("WriteFileAtomic() into a missing directory succeeded")
	}
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true")
	}
}

func TestIsMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"spec.md", true},
		{"docs/PLAN.MD", true},
		{"notes.markdown", true},
		{"tasks.txt", false},
		{"md", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsMarkdown(tt.path); got != tt.want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestResolveWithin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "relative", path: "specs/spec.md", want: filepath.Join(root, "specs", "spec.md")},
		{name: "cleaned", path: "specs/../spec.md", want: filepath.Join(root, "spec.md")},
		{name: "absolute inside", path: filepath.Join(root, "a.md"), want: filepath.Join(root, "a.md")},
		{name: "escape", path: "../outside.md", wantErr: fileutil.ErrOutsideRoot},
		{name: "absolute outside", path: filepath.Join(filepath.Dir(root), "x.md"), wantErr: fileutil.ErrOutsideRoot},
		{name: "dotdot prefix name", path: "..notes.md", want: filepath.Join(root, "..notes.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.ResolveWithin(root, tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveWithin(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ResolveWithin(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
