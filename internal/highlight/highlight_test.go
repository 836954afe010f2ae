package highlight

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeHighlighter returns queued errors before succeeding.
type fakeHighlighter struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (f *fakeHighlighter) Highlight(_ context.Context, lang, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return "", err
	}
	return "<pre>" + lang + ":" + code + "</pre>", nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestChroma_Highlight(t *testing.T) {
	t.Parallel()

	c := NewChroma("")
	got, err := c.Highlight(context.Background(), "go", "package main")
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("Highlight() = %q, want chroma classes", got)
	}
	if !strings.Contains(got, "package") {
		t.Errorf("Highlight() = %q, want source text", got)
	}
}

func TestChroma_UnknownLanguage(t *testing.T) {
	t.Parallel()

	_, err := NewChroma("github").Highlight(context.Background(), "no-such-language-xyz", "x")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Highlight() error = %v, want ErrUnknownLanguage", err)
	}
}

func TestChroma_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewChroma("").Highlight(ctx, "go", "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Highlight() error = %v, want context.Canceled", err)
	}
}

func TestChroma_CSS(t *testing.T) {
	t.Parallel()

	css, err := NewChroma("monokai").CSS()
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS() = %q, want .chroma rules", css)
	}
}

// ---------------------------------------------------------------------------
// Retrying
// ---------------------------------------------------------------------------

func TestRetrying_SucceedsAfterUnavailable(t *testing.T) {
	t.Parallel()

	fake := &fakeHighlighter{errs: []error{ErrUnavailable, ErrUnavailable}}
	r := WithRetry(fake, 3, time.Millisecond, nil)
	r.sleep = noSleep

	got, err := r.Highlight(context.Background(), "go", "x")
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	if got != "<pre>go:x</pre>" {
		t.Errorf("Highlight() = %q", got)
	}
	if fake.calls != 3 {
		t.Errorf("calls = %d, want 3", fake.calls)
	}
	if r.Disabled() {
		t.Error("Disabled() = true, want false")
	}
}

func TestRetrying_DisablesAfterCap(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	fake := &fakeHighlighter{errs: []error{ErrUnavailable, ErrUnavailable, ErrUnavailable, ErrUnavailable}}
	r := WithRetry(fake, 2, time.Millisecond, log)
	r.sleep = noSleep

	_, err := r.Highlight(context.Background(), "go", "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Highlight() error = %v, want ErrUnavailable", err)
	}
	if fake.calls != 2 {
		t.Errorf("calls = %d, want 2", fake.calls)
	}
	if !r.Disabled() {
		t.Error("Disabled() = false, want true")
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("expected a warning log, got %q", logs.String())
	}

	// Permanently skipped: the engine is not called again.
	if _, err := r.Highlight(context.Background(), "go", "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("second Highlight() error = %v, want ErrUnavailable", err)
	}
	if fake.calls != 2 {
		t.Errorf("calls after disable = %d, want 2", fake.calls)
	}
}

func TestRetrying_OtherErrorsNotRetried(t *testing.T) {
	t.Parallel()

	fake := &fakeHighlighter{errs: []error{ErrUnknownLanguage}}
	r := WithRetry(fake, 5, time.Millisecond, nil)
	r.sleep = noSleep

	_, err := r.Highlight(context.Background(), "zz", "x")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Highlight() error = %v, want ErrUnknownLanguage", err)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
	if r.Disabled() {
		t.Error("Disabled() = true, want false")
	}
}

func TestRetrying_ContextCanceledDuringWait(t *testing.T) {
	t.Parallel()

	fake := &fakeHighlighter{errs: []error{ErrUnavailable, ErrUnavailable}}
	r := WithRetry(fake, 3, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Highlight(ctx, "go", "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Highlight() error = %v, want context.Canceled", err)
	}
}

func TestWithRetry_Defaults(t *testing.T) {
	t.Parallel()

	r := WithRetry(&fakeHighlighter{}, 0, -1, nil)
	if r.attempts != DefaultRetries {
		t.Errorf("attempts = %d, want %d", r.attempts, DefaultRetries)
	}
	if r.interval != DefaultRetryInterval {
		t.Errorf("interval = %v, want %v", r.interval, DefaultRetryInterval)
	}
}
