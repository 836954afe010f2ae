package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadConfig - Config file and environment resolution
// ---------------------------------------------------------------------------

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil)
	cfg, vars, err := loadConfig("", env)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, config.DefaultAddr)
	}
	if *vars != (envConfig{}) {
		t.Errorf("vars = %+v, want zero", *vars)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "specview.yaml", "server:\n  addr: \"127.0.0.1:9001\"\n  root: \"/from/file\"\n")

	tests := []struct {
		name     string
		flag     string
		vars     map[string]string
		wantAddr string
		wantRoot string
	}{
		{"flag file", path, nil, "127.0.0.1:9001", "/from/file"},
		{"env file", "", map[string]string{"SPECVIEW_CONFIG": path}, "127.0.0.1:9001", "/from/file"},
		{"env overrides file", path, map[string]string{"SPECVIEW_ADDR": ":7000"}, ":7000", "/from/file"},
		{
			"flag file wins over env file",
			path,
			map[string]string{"SPECVIEW_CONFIG": filepath.Join(dir, "missing.yaml")},
			"127.0.0.1:9001", "/from/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(tt.vars)
			cfg, _, err := loadConfig(tt.flag, env)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Server.Addr != tt.wantAddr {
				t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, tt.wantAddr)
			}
			if cfg.Server.Root != tt.wantRoot {
				t.Errorf("Server.Root = %q, want %q", cfg.Server.Root, tt.wantRoot)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "server: [\n")
	unknown := writeFile(t, dir, "unknown.yaml", "colour: blue\n")

	tests := []struct {
		name    string
		flag    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), config.ErrConfigNotFound},
		{"malformed yaml", bad, config.ErrConfigParse},
		{"unknown field", unknown, config.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(nil)
			_, _, err := loadConfig(tt.flag, env)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("loadConfig() error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != ExitUsage {
				t.Errorf("exit code = %d, want %d", got, ExitUsage)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeRendererFlags - Flags override the configuration
// ---------------------------------------------------------------------------

func TestMergeRendererFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Assets.Style = "default"
	mergeRendererFlags(&rendererFlags{style: "dark", assetPath: "/assets", noHighlight: true}, cfg)

	if cfg.Assets.Style != "dark" {
		t.Errorf("Assets.Style = %q, want %q", cfg.Assets.Style, "dark")
	}
	if cfg.Assets.BasePath != "/assets" {
		t.Errorf("Assets.BasePath = %q, want %q", cfg.Assets.BasePath, "/assets")
	}
	if !cfg.Highlight.Disabled {
		t.Error("Highlight.Disabled = false, want true")
	}

	untouched := config.DefaultConfig()
	mergeRendererFlags(&rendererFlags{}, untouched)
	if untouched.Highlight.Disabled || untouched.Assets.BasePath != "" {
		t.Errorf("empty flags changed config: %+v", untouched)
	}
}

// ---------------------------------------------------------------------------
// TestNewRenderer - Renderer construction from flags and config
// ---------------------------------------------------------------------------

func TestNewRenderer(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv(nil)
		r, cfg, _, err := newRenderer(&rendererFlags{noHighlight: true}, log, env)
		if err != nil {
			t.Fatalf("newRenderer() error = %v", err)
		}
		if !cfg.Highlight.Disabled {
			t.Error("flag not merged into config")
		}
		result, err := r.Render(context.Background(), specview.Input{Markdown: "### Notes\n\nHello\n"})
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		assertContains(t, result.HTML, "Hello")
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()
		env, _, _ := testEnv(nil)
		_, _, _, err := newRenderer(&rendererFlags{style: "nonexistent"}, log, env)
		if !errors.Is(err, specview.ErrStyleNotFound) {
			t.Errorf("newRenderer() error = %v, want ErrStyleNotFound", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCommandsFromConfig - Command set mapping
// ---------------------------------------------------------------------------

func TestCommandsFromConfig(t *testing.T) {
	t.Parallel()

	c := config.CommandsConfig{
		Tasks: config.CommandSet{Regenerate: "re", Approve: "ok", Enhance: "more"},
	}
	got := commandsFromConfig(c)

	want := specview.CommandSet{Regenerate: "re", Approve: "ok", Enhance: "more"}
	if got[specview.KindTasks] != want {
		t.Errorf("tasks = %+v, want %+v", got[specview.KindTasks], want)
	}
	for _, kind := range []specview.DocumentKind{specview.KindSpec, specview.KindPlan, specview.KindOther} {
		if got[kind] != (specview.CommandSet{}) {
			t.Errorf("%s = %+v, want empty", kind, got[kind])
		}
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger - Verbosity flags pick the level
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     outputFlags
		level     slog.Level
		wantInfo  bool
		wantDebug bool
		wantError bool
	}{
		{"default warn", outputFlags{}, slog.LevelWarn, false, false, true},
		{"default info", outputFlags{}, slog.LevelInfo, true, false, true},
		{"quiet", outputFlags{quiet: true}, slog.LevelInfo, false, false, true},
		{"verbose", outputFlags{verbose: true}, slog.LevelWarn, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := newLogger(&buf, tt.flags, tt.level)
			ctx := context.Background()

			if got := log.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := log.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := log.Enabled(ctx, slog.LevelError); got != tt.wantError {
				t.Errorf("error enabled = %v, want %v", got, tt.wantError)
			}
		})
	}
}
