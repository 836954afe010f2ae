package main

import (
	"io"
	"log/slog"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/config"
)

// loadConfig resolves the configuration: the --config file, else the
// SPECVIEW_CONFIG file, else the defaults, with environment overrides on top.
// Unknown SPECVIEW_* variables are reported on stderr.
func loadConfig(configFlag string, env *Environment) (*config.Config, *envConfig, error) {
	warnUnknownEnvVars(env)
	vars := loadEnvConfig(env)

	name := configFlag
	if name == "" {
		name = vars.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, nil, err
		}
	}

	applyEnvConfig(vars, cfg)
	return cfg, vars, nil
}

// mergeRendererFlags applies renderer flags over the configuration.
func mergeRendererFlags(f *rendererFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Assets.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.noHighlight {
		cfg.Highlight.Disabled = true
	}
}

// rendererOptions translates the configuration into renderer options.
func rendererOptions(cfg *config.Config, log *slog.Logger) ([]specview.Option, error) {
	interval, err := cfg.Highlight.RetryIntervalDuration()
	if err != nil {
		return nil, err
	}

	opts := []specview.Option{
		specview.WithLogger(log),
		specview.WithAssetPath(cfg.Assets.BasePath),
		specview.WithStyle(cfg.Assets.Style),
		specview.WithRetry(cfg.Highlight.Retries, interval),
		specview.WithCommands(commandsFromConfig(cfg.Commands)),
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, specview.WithHighlightStyle(cfg.Highlight.Style))
	}
	if cfg.Highlight.Disabled {
		opts = append(opts, specview.WithoutHighlighting())
	}
	if len(cfg.Render.ExtraFileExtensions) > 0 {
		opts = append(opts, specview.WithExtraExtensions(cfg.Render.ExtraFileExtensions...))
	}
	if t := cfg.Render.TreeThreshold; t > 0 {
		opts = append(opts, specview.WithTreeThreshold(t))
	}
	return opts, nil
}

// newRenderer loads the configuration, applies f and builds a Renderer.
func newRenderer(f *rendererFlags, log *slog.Logger, env *Environment) (*specview.Renderer, *config.Config, *envConfig, error) {
	cfg, vars, err := loadConfig(f.config, env)
	if err != nil {
		return nil, nil, nil, err
	}
	mergeRendererFlags(f, cfg)

	opts, err := rendererOptions(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	r, err := specview.NewRenderer(opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return r, cfg, vars, nil
}

func commandsFromConfig(c config.CommandsConfig) specview.Commands {
	set := func(s config.CommandSet) specview.CommandSet {
		return specview.CommandSet{Regenerate: s.Regenerate, Approve: s.Approve, Enhance: s.Enhance}
	}
	return specview.Commands{
		specview.KindSpec:  set(c.Spec),
		specview.KindPlan:  set(c.Plan),
		specview.KindTasks: set(c.Tasks),
		specview.KindOther: set(c.Other),
	}
}

// newLogger returns a text logger on w at level. Quiet keeps errors only,
// verbose adds debug records.
func newLogger(w io.Writer, f outputFlags, level slog.Level) *slog.Logger {
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
