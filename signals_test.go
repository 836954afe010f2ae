package specview

import (
	"errors"
	"reflect"
	"testing"
)

func TestDetectKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want DocumentKind
	}{
		{"specs/001-catalog/spec.md", KindSpec},
		{"plan.md", KindPlan},
		{"specs/001/TASKS.md", KindTasks},
		{"specs/001/tasks.md", KindTasks},
		{"specs/001/research.md", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := DetectKind(tt.path); got != tt.want {
				t.Errorf("DetectKind(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRenderer_Signal(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithoutHighlighting())

	tests := []struct {
		name    string
		action  SignalAction
		path    string
		line    int
		want    Signal
		wantErr error
	}{
		{
			name:   "approve spec",
			action: SignalApprove,
			path:   "specs/001/spec.md",
			want:   Signal{Action: SignalApprove, Command: "speckit.plan", Path: "specs/001/spec.md", Kind: KindSpec},
		},
		{
			name:   "regenerate tasks from a line",
			action: SignalRegenerate,
			path:   "tasks.md",
			line:   12,
			want:   Signal{Action: SignalRegenerate, Command: "speckit.tasks", Path: "tasks.md", Kind: KindTasks, Line: 12},
		},
		{
			name:   "enhance other document",
			action: SignalEnhance,
			path:   "notes.md",
			want:   Signal{Action: SignalEnhance, Command: "speckit.clarify", Path: "notes.md", Kind: KindOther},
		},
		{
			name:    "approve other document has no command",
			action:  SignalApprove,
			path:    "notes.md",
			wantErr: ErrNoCommand,
		},
		{
			name:    "unknown action",
			action:  "publish",
			path:    "spec.md",
			wantErr: ErrInvalidSignal,
		},
		{
			name:    "negative line",
			action:  SignalApprove,
			path:    "spec.md",
			line:    -1,
			wantErr: ErrInvalidSignal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Signal(tt.action, tt.path, tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Signal() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Signal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenderer_SignalCustomCommands(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, WithCommands(Commands{
		KindOther: {Approve: "docs.publish"},
	}))

	got, err := r.Signal(SignalApprove, "README.md", 0)
	if err != nil {
		t.Fatalf("Signal() error = %v", err)
	}
	if got.Command != "docs.publish" {
		t.Errorf("Command = %q, want docs.publish", got.Command)
	}
	if _, err := r.Signal(SignalApprove, "spec.md", 0); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Signal(spec.md) error = %v, want ErrNoCommand", err)
	}
}

func TestActionsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lineType LineType
		want     []UserAction
	}{
		{LineTask, []UserAction{ActionToggle, ActionEdit, ActionRemove, ActionComment}},
		{LineSection, []UserAction{ActionEdit, ActionComment}},
		{LineAcceptance, []UserAction{ActionEdit, ActionComment}},
		{LineUserStory, []UserAction{ActionEdit, ActionRemove, ActionComment}},
		{LineParagraph, []UserAction{ActionEdit, ActionRemove, ActionComment}},
		{LineType("heading"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.lineType), func(t *testing.T) {
			t.Parallel()
			if got := ActionsFor(tt.lineType); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ActionsFor(%q) = %v, want %v", tt.lineType, got, tt.want)
			}
		})
	}

	// The returned slice is a copy.
	ActionsFor(LineTask)[0] = "mutated"
	if ActionsFor(LineTask)[0] != ActionToggle {
		t.Error("ActionsFor() exposes its internal table")
	}
}

func TestSignalAction_Valid(t *testing.T) {
	t.Parallel()

	for _, a := range []SignalAction{SignalRegenerate, SignalApprove, SignalEnhance} {
		if !a.Valid() {
			t.Errorf("%q.Valid() = false", a)
		}
	}
	if SignalAction("deploy").Valid() {
		t.Error(`"deploy".Valid() = true`)
	}
}
