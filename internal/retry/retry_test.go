package retry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures log records so tests can count warnings/errors.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func testOptions(h *recordingHandler) Options {
	return Options{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Logger:       slog.New(h),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	h := &recordingHandler{}
	calls := 0

	got, err := Do(context.Background(), "test", func() (int, error) {
		calls++
		return 42, nil
	}, testOptions(h))

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)
	assert.Zero(t, h.count(slog.LevelWarn))
}

func TestDoRecoversAfterFailure(t *testing.T) {
	h := &recordingHandler{}
	calls := 0

	got, err := Do(context.Background(), "test", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}, testOptions(h))

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, h.count(slog.LevelWarn))
	assert.Zero(t, h.count(slog.LevelError))
}

func TestDoExhaustion(t *testing.T) {
	h := &recordingHandler{}
	calls := 0
	failure := errors.New("remote down")

	_, err := Do(context.Background(), "test", func() (int, error) {
		calls++
		return 0, failure
	}, testOptions(h))

	require.ErrorIs(t, err, failure)
	assert.Equal(t, 3, calls)
	// Two warnings for the two retried failures, one error at exhaustion.
	assert.Equal(t, 2, h.count(slog.LevelWarn))
	assert.Equal(t, 1, h.count(slog.LevelError))
}

func TestDoZeroMaxAttemptsRunsOnce(t *testing.T) {
	h := &recordingHandler{}
	calls := 0

	// A zero-valued Options must not turn into unbounded retries
	_, err := Do(context.Background(), "test", func() (int, error) {
		calls++
		return 0, errors.New("nope")
	}, Options{Logger: slog.New(h)})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Zero(t, h.count(slog.LevelWarn))
	assert.Equal(t, 1, h.count(slog.LevelError))
}

func TestDoDelayDoubles(t *testing.T) {
	h := &recordingHandler{}
	var stamps []time.Time

	opts := Options{
		MaxAttempts:  3,
		InitialDelay: 40 * time.Millisecond,
		Logger:       slog.New(h),
	}

	_, err := Do(context.Background(), "test", func() (int, error) {
		stamps = append(stamps, time.Now())
		return 0, errors.New("nope")
	}, opts)

	require.Error(t, err)
	require.Len(t, stamps, 3)

	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	assert.GreaterOrEqual(t, first, 40*time.Millisecond)
	assert.GreaterOrEqual(t, second, 80*time.Millisecond)
}

func TestDoPermanentErrorShortCircuits(t *testing.T) {
	h := &recordingHandler{}
	calls := 0
	fatal := errors.New("bad credentials")

	opts := testOptions(h)
	opts.RetryIf = func(err error) bool { return !errors.Is(err, fatal) }

	_, err := Do(context.Background(), "test", func() (int, error) {
		calls++
		return 0, fatal
	}, opts)

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
	assert.Zero(t, h.count(slog.LevelWarn))
}

func TestDoContextCancellation(t *testing.T) {
	h := &recordingHandler{}
	ctx, cancel := context.WithCancel(context.Background())

	opts := Options{
		MaxAttempts:  5,
		InitialDelay: 50 * time.Millisecond,
		Logger:       slog.New(h),
	}

	calls := 0
	_, err := Do(ctx, "test", func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	}, opts)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
