package highlight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Retry defaults.
const (
	DefaultRetries       = 3
	DefaultRetryInterval = 200 * time.Millisecond
)

// Retrying retries a Highlighter that reports ErrUnavailable.
// After the attempt cap is reached it stops calling the engine for the rest of
// its lifetime. Errors other than ErrUnavailable are returned immediately.
// Safe for concurrent use.
type Retrying struct {
	next     Highlighter
	attempts int
	interval time.Duration
	log      *slog.Logger
	disabled atomic.Bool

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps next. Non-positive attempts and negative intervals fall back
// to the defaults; a nil logger discards warnings.
func WithRetry(next Highlighter, attempts int, interval time.Duration, log *slog.Logger) *Retrying {
	if attempts <= 0 {
		attempts = DefaultRetries
	}
	if interval < 0 {
		interval = DefaultRetryInterval
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Retrying{
		next:     next,
		attempts: attempts,
		interval: interval,
		log:      log,
		sleep:    sleepContext,
	}
}

// Highlight calls the wrapped engine, retrying while it is unavailable.
func (r *Retrying) Highlight(ctx context.Context, lang, code string) (string, error) {
	if r.disabled.Load() {
		return "", fmt.Errorf("%w: disabled", ErrUnavailable)
	}

	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		out, err := r.next.Highlight(ctx, lang, code)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return "", err
		}
		lastErr = err

		if attempt < r.attempts-1 {
			if err := r.sleep(ctx, r.interval); err != nil {
				return "", err
			}
		}
	}

	if r.disabled.CompareAndSwap(false, true) {
		r.log.Warn("highlighter unavailable, code blocks will not be highlighted",
			"attempts", r.attempts,
			"error", lastErr,
		)
	}
	return "", fmt.Errorf("%w: gave up after %d attempts: %v", ErrUnavailable, r.attempts, lastErr)
}

// Disabled reports whether the engine was given up on.
func (r *Retrying) Disabled() bool {
	return r.disabled.Load()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
