// Package config loads and validates the YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file too large")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxConfigSize caps the config file size.
const MaxConfigSize = 1 << 20

// Field limits.
const (
	MaxStyleLength     = 64
	MaxPathLength      = 4096
	MaxAddrLength      = 255
	MaxCommandLength   = 200
	MaxExtensionLength = 16
	MaxExtensions      = 64
	MaxRetries         = 10
)

// Defaults.
const (
	DefaultAddr           = "127.0.0.1:7777"
	DefaultTreeThreshold  = 0.3
	DefaultRetries        = 3
	DefaultRetryInterval  = "200ms"
	DefaultExportTimeout  = "30s"
	DefaultPageSize       = "letter"
	DefaultHighlightStyle = "github"
)

var extensionPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Config holds all configuration.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Highlight HighlightConfig `yaml:"highlight"`
	Assets    AssetsConfig    `yaml:"assets"`
	Server    ServerConfig    `yaml:"server"`
	Commands  CommandsConfig  `yaml:"commands"`
	Export    ExportConfig    `yaml:"export"`
}

// RenderConfig tunes the block renderer.
type RenderConfig struct {
	ExtraFileExtensions []string `yaml:"extraFileExtensions"` // recognized in code spans, without dot
	TreeThreshold       float64  `yaml:"treeThreshold"`       // 0 < t < 1
}

// HighlightConfig controls syntax highlighting of code blocks.
type HighlightConfig struct {
	Disabled      bool   `yaml:"disabled"`
	Style         string `yaml:"style"`         // chroma style name
	Retries       int    `yaml:"retries"`       // attempts while the engine is unavailable
	RetryInterval string `yaml:"retryInterval"` // Go duration, e.g. "200ms"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
	Style    string `yaml:"style"`    // page stylesheet name
}

// ServerConfig defines the preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Root string `yaml:"root"` // documents outside root are refused; empty = working directory
}

// CommandSet names the host commands for one document kind.
type CommandSet struct {
	Regenerate string `yaml:"regenerate"`
	Approve    string `yaml:"approve"`
	Enhance    string `yaml:"enhance"`
}

// CommandsConfig maps document kinds to their command identifiers.
type CommandsConfig struct {
	Spec  CommandSet `yaml:"spec"`
	Plan  CommandSet `yaml:"plan"`
	Tasks CommandSet `yaml:"tasks"`
	Other CommandSet `yaml:"other"`
}

// ExportConfig defines PDF export options.
type ExportConfig struct {
	Timeout   string `yaml:"timeout"`  // Go duration
	PageSize  string `yaml:"pageSize"` // "letter", "a4", "legal"
	Landscape bool   `yaml:"landscape"`
}

// RetryIntervalDuration parses RetryInterval, empty meaning the default.
func (h HighlightConfig) RetryIntervalDuration() (time.Duration, error) {
	return parseDuration("highlight.retryInterval", h.RetryInterval, DefaultRetryInterval)
}

// TimeoutDuration parses Timeout, empty meaning the default.
func (e ExportConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("export.timeout", e.Timeout, DefaultExportTimeout)
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if len(c.Render.ExtraFileExtensions) > MaxExtensions {
		return fmt.Errorf("%w: render.extraFileExtensions: %d entries, max %d",
			ErrInvalidValue, len(c.Render.ExtraFileExtensions), MaxExtensions)
	}
	for i, ext := range c.Render.ExtraFileExtensions {
		field := fmt.Sprintf("render.extraFileExtensions[%d]", i)
		if err := validateFieldLength(field, ext, MaxExtensionLength); err != nil {
			return err
		}
		if !extensionPattern.MatchString(strings.TrimPrefix(ext, ".")) {
			return fmt.Errorf("%w: %s: %q is not a file extension", ErrInvalidValue, field, ext)
		}
	}
	if t := c.Render.TreeThreshold; t < 0 || t >= 1 {
		return fmt.Errorf("%w: render.treeThreshold: must be in [0, 1), got %.2f", ErrInvalidValue, t)
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}
	if c.Highlight.Retries < 0 || c.Highlight.Retries > MaxRetries {
		return fmt.Errorf("%w: highlight.retries: must be between 0 and %d, got %d",
			ErrInvalidValue, MaxRetries, c.Highlight.Retries)
	}
	if _, err := c.Highlight.RetryIntervalDuration(); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.style", c.Assets.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.root", c.Server.Root, MaxPathLength); err != nil {
		return err
	}

	for kind, set := range map[string]CommandSet{
		"spec":  c.Commands.Spec,
		"plan":  c.Commands.Plan,
		"tasks": c.Commands.Tasks,
		"other": c.Commands.Other,
	} {
		for action, cmd := range map[string]string{
			"regenerate": set.Regenerate,
			"approve":    set.Approve,
			"enhance":    set.Enhance,
		} {
			if err := validateFieldLength("commands."+kind+"."+action, cmd, MaxCommandLength); err != nil {
				return err
			}
		}
	}

	if _, err := c.Export.TimeoutDuration(); err != nil {
		return err
	}
	switch strings.ToLower(c.Export.PageSize) {
	case "", "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: export.pageSize: %q (must be letter, a4, or legal)", ErrInvalidValue, c.Export.PageSize)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func parseDuration(field, value, fallback string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s: %q is not a non-negative duration", ErrInvalidValue, field, value)
	}
	return d, nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{TreeThreshold: DefaultTreeThreshold},
		Highlight: HighlightConfig{
			Style:         DefaultHighlightStyle,
			Retries:       DefaultRetries,
			RetryInterval: DefaultRetryInterval,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Commands: CommandsConfig{
			Spec:  CommandSet{Regenerate: "speckit.specify", Approve: "speckit.plan", Enhance: "speckit.clarify"},
			Plan:  CommandSet{Regenerate: "speckit.plan", Approve: "speckit.tasks", Enhance: "speckit.clarify"},
			Tasks: CommandSet{Regenerate: "speckit.tasks", Approve: "speckit.implement", Enhance: "speckit.analyze"},
			Other: CommandSet{Enhance: "speckit.clarify"},
		},
		Export: ExportConfig{Timeout: DefaultExportTimeout, PageSize: DefaultPageSize},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values missing from the file keep their defaults.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML strictly on top of DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxConfigSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-specview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-specview", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
