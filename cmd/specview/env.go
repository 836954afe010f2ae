package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-specview/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
}

// DefaultEnv returns the process environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}

const envPrefix = "SPECVIEW_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // SPECVIEW_CONFIG: config file name or path
	Style      string // SPECVIEW_STYLE: page stylesheet name
	Addr       string // SPECVIEW_ADDR: preview server address
	Root       string // SPECVIEW_ROOT: preview server document root
	Workers    int    // SPECVIEW_WORKERS: parallel render workers
}

// knownEnvVars lists valid SPECVIEW_* environment variables.
var knownEnvVars = map[string]bool{
	"SPECVIEW_CONFIG":  true,
	"SPECVIEW_STYLE":   true,
	"SPECVIEW_ADDR":    true,
	"SPECVIEW_ROOT":    true,
	"SPECVIEW_WORKERS": true,
}

// loadEnvConfig reads the recognized SPECVIEW_* variables. Malformed worker
// counts are ignored.
func loadEnvConfig(env *Environment) *envConfig {
	vars := &envConfig{
		ConfigPath: env.Getenv("SPECVIEW_CONFIG"),
		Style:      env.Getenv("SPECVIEW_STYLE"),
		Addr:       env.Getenv("SPECVIEW_ADDR"),
		Root:       env.Getenv("SPECVIEW_ROOT"),
	}
	if workers := env.Getenv("SPECVIEW_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			vars.Workers = w
		}
	}
	return vars
}

// warnUnknownEnvVars reports SPECVIEW_* variables that are not recognized,
// usually typos.
func warnUnknownEnvVars(env *Environment) {
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with environment values.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(vars *envConfig, cfg *config.Config) {
	if vars.Style != "" {
		cfg.Assets.Style = vars.Style
	}
	if vars.Addr != "" {
		cfg.Server.Addr = vars.Addr
	}
	if vars.Root != "" {
		cfg.Server.Root = vars.Root
	}
}
