package main

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunServe - Server lifecycle
// ---------------------------------------------------------------------------

func TestRunServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	env, stdout, stderr := testEnv(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runServe(ctx, []string{"-a", "127.0.0.1:0", "-r", root, "--no-highlight"}, env); err != nil {
		t.Fatalf("runServe() error = %v, stderr: %s", err, stderr.String())
	}
	assertContains(t, stdout.String(), "Serving ")
	assertContains(t, stdout.String(), "http://127.0.0.1:")
}

func TestRunServe_RootFromEnv(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	env, stdout, _ := testEnv(map[string]string{"SPECVIEW_ROOT": root, "SPECVIEW_ADDR": "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runServe(ctx, []string{"--no-highlight"}, env); err != nil {
		t.Fatalf("runServe() error = %v", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, stdout.String(), abs)
}

func TestRunServe_Errors(t *testing.T) {
	t.Parallel()

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	t.Cleanup(func() { _ = busy.Close() })

	root := t.TempDir()
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"positional argument", []string{"docs"}, ErrUsage},
		{"address in use", []string{"-a", busy.Addr().String(), "-r", root}, ErrListen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(nil)
			if err := runServe(context.Background(), tt.args, env); !errors.Is(err, tt.wantErr) {
				t.Errorf("runServe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv(nil)
		err := runServe(context.Background(), []string{"-a", "127.0.0.1:0", "-r", filepath.Join(root, "missing")}, env)
		if err == nil {
			t.Error("runServe() error = nil, want error for missing root")
		}
	})
}
