package main

import (
	"context"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunEdit - Line edits written in place
// ---------------------------------------------------------------------------

func TestRunEdit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantOut string
	}{
		{
			"toggle",
			[]string{"--line", "3", "--toggle"},
			"# Tasks\n\n- [x] T001 Create the index\n- [x] T002 Add filters\n",
			"Updated",
		},
		{
			"replace keeps markers",
			[]string{"-l", "4", "-t", "T002 Add sorting"},
			"# Tasks\n\n- [ ] T001 Create the index\n- [x] T002 Add sorting\n",
			"(edit)",
		},
		{
			"remove",
			[]string{"-l", "3", "--remove"},
			"# Tasks\n\n- [x] T002 Add filters\n",
			"(remove)",
		},
		{
			"unchanged",
			[]string{"-l", "1", "-t", "Tasks"},
			tasksDoc,
			"Unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), "tasks.md", tasksDoc)
			env, stdout, stderr := testEnv(nil)

			code := run(context.Background(), args(append(append([]string{"edit"}, tt.args...), path)...), env)
			if code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
			}
			if got := readFile(t, path); got != tt.want {
				t.Errorf("document =\n%q\nwant\n%q", got, tt.want)
			}
			assertContains(t, stdout.String(), tt.wantOut)
		})
	}
}

func TestRunEdit_DryRun(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tasks.md", tasksDoc)
	env, stdout, _ := testEnv(nil)

	code := run(context.Background(), args("edit", "-n", "-l", "3", "--toggle", path), env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	assertContains(t, stdout.String(), "- [x] T001 Create the index")
	if got := readFile(t, path); got != tasksDoc {
		t.Errorf("dry run modified the document:\n%s", got)
	}
}

func TestRunEdit_Quiet(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tasks.md", tasksDoc)
	env, stdout, _ := testEnv(nil)

	if code := run(context.Background(), args("edit", "-q", "-l", "3", "--toggle", path), env); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet edit printed %q", stdout.String())
	}
}

func TestRunEdit_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "tasks.md", tasksDoc)
	txt := writeFile(t, dir, "notes.txt", "text")

	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"no file", []string{"edit", "-l", "1", "--toggle"}, ExitUsage},
		{"two files", []string{"edit", "-l", "1", "--toggle", path, path}, ExitUsage},
		{"wrong extension", []string{"edit", "-l", "1", "--toggle", txt}, ExitUsage},
		{"no action", []string{"edit", "-l", "1", path}, ExitUsage},
		{"line out of range", []string{"edit", "-l", "99", "--toggle", path}, ExitUsage},
		{"missing file", []string{"edit", "-l", "1", "--toggle", filepath.Join(dir, "nope.md")}, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, _ := testEnv(nil)
			if code := run(context.Background(), args(tt.args...), env); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
		})
	}

	if got := readFile(t, path); got != tasksDoc {
		t.Errorf("failed edits modified the document:\n%s", got)
	}
}
