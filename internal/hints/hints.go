// Package hints provides actionable remedies for common CLI failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-specview/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for headless Chrome launch failures.
// getenv reads the process environment.
func ForBrowserConnect(getenv func(string) string) string {
	var hints []string

	inCI := getenv("CI") != "" ||
		getenv("GITHUB_ACTIONS") != "" ||
		getenv("GITLAB_CI") != "" ||
		getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the export timeout.
func ForTimeout() string {
	return format("for large documents, use --timeout or export.timeout")
}

// ForConfigNotFound returns hints for a config name that matched no file.
func ForConfigNotFound() string {
	return format("use --config /path/to/file.yaml or set SPECVIEW_CONFIG")
}

// ForStyleNotFound lists the available page stylesheets.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForListen returns a hint for an address that could not be bound.
func ForListen() string {
	return format("the address may be in use; pick another with --addr or SPECVIEW_ADDR")
}

// ForLineOutOfRange returns a hint for edits past the end of a document.
func ForLineOutOfRange() string {
	return format("lines are numbered from 1; 'specview outline' prints heading lines")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
