package specview

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DocumentKind identifies which kind of specification document a file is.
type DocumentKind string

// Document kinds, detected from the file name.
const (
	KindSpec  DocumentKind = "spec"
	KindPlan  DocumentKind = "plan"
	KindTasks DocumentKind = "tasks"
	KindOther DocumentKind = "other"
)

// DetectKind returns the kind of the document at path.
func DetectKind(path string) DocumentKind {
	switch strings.ToLower(filepath.Base(path)) {
	case "spec.md":
		return KindSpec
	case "plan.md":
		return KindPlan
	case "tasks.md":
		return KindTasks
	default:
		return KindOther
	}
}

// SignalAction is a host action a user can request from a rendered document.
type SignalAction string

// Signal actions.
const (
	SignalRegenerate SignalAction = "regenerate"
	SignalApprove    SignalAction = "approve"
	SignalEnhance    SignalAction = "enhance"
)

// Valid reports whether a is a known signal action.
func (a SignalAction) Valid() bool {
	switch a {
	case SignalRegenerate, SignalApprove, SignalEnhance:
		return true
	}
	return false
}

// CommandSet names the host commands for one document kind.
type CommandSet struct {
	Regenerate string
	Approve    string
	Enhance    string
}

func (c CommandSet) command(a SignalAction) string {
	switch a {
	case SignalRegenerate:
		return c.Regenerate
	case SignalApprove:
		return c.Approve
	case SignalEnhance:
		return c.Enhance
	}
	return ""
}

// Commands maps document kinds to their command identifiers.
type Commands map[DocumentKind]CommandSet

// DefaultCommands returns the command identifiers used when none are
// configured.
func DefaultCommands() Commands {
	return Commands{
		KindSpec:  {Regenerate: "speckit.specify", Approve: "speckit.plan", Enhance: "speckit.clarify"},
		KindPlan:  {Regenerate: "speckit.plan", Approve: "speckit.tasks", Enhance: "speckit.clarify"},
		KindTasks: {Regenerate: "speckit.tasks", Approve: "speckit.implement", Enhance: "speckit.analyze"},
		KindOther: {Enhance: "speckit.clarify"},
	}
}

// Signal is a request for the host to run a command. The renderer never runs
// anything itself.
type Signal struct {
	Action  SignalAction `json:"action"`
	Command string       `json:"command"`
	Path    string       `json:"path"`
	Kind    DocumentKind `json:"kind"`
	Line    int          `json:"line,omitempty"` // 1-indexed, 0 for the whole document
	Prompt  string       `json:"prompt,omitempty"`
}

// Signal resolves action for the document at path to a host command.
// Returns ErrInvalidSignal for unknown actions or a negative line, and
// ErrNoCommand when the document kind has no command for action.
func (r *Renderer) Signal(action SignalAction, path string, line int) (Signal, error) {
	if !action.Valid() {
		return Signal{}, fmt.Errorf("%w: %q", ErrInvalidSignal, action)
	}
	if line < 0 {
		return Signal{}, fmt.Errorf("%w: negative line %d", ErrInvalidSignal, line)
	}

	kind := DetectKind(path)
	cmd := r.cfg.commands[kind].command(action)
	if cmd == "" {
		return Signal{}, fmt.Errorf("%w: %s on %s document", ErrNoCommand, action, kind)
	}
	return Signal{Action: action, Command: cmd, Path: path, Kind: kind, Line: line}, nil
}

// UserAction is something a reader can do to a rendered block.
type UserAction string

// User actions.
const (
	ActionEdit    UserAction = "edit"
	ActionRemove  UserAction = "remove"
	ActionToggle  UserAction = "toggle"
	ActionComment UserAction = "comment"
)

var actionsByType = map[LineType][]UserAction{
	LineTask:       {ActionToggle, ActionEdit, ActionRemove, ActionComment},
	LineSection:    {ActionEdit, ActionComment},
	LineUserStory:  {ActionEdit, ActionRemove, ActionComment},
	LineAcceptance: {ActionEdit, ActionComment},
	LineParagraph:  {ActionEdit, ActionRemove, ActionComment},
}

// ActionsFor returns the actions offered on blocks of type t, or nil for an
// unknown type.
func ActionsFor(t LineType) []UserAction {
	actions := actionsByType[t]
	if actions == nil {
		return nil
	}
	return append([]UserAction(nil), actions...)
}
