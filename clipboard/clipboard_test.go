package clipboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scripted returns each value in turn, then repeats the last one.
type scripted struct {
	mu     sync.Mutex
	values []string
	errs   []error
	i      int
}

func (s *scripted) ReadAll() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.i, len(s.values)-1)
	s.i++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.values[i], err
}

func collect(t *testing.T, w *Watcher, n int) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch := w.Run(ctx)
	var got []string
	for text := range ch {
		got = append(got, text)
		if len(got) == n {
			break
		}
	}
	cancel()
	for range ch {
	}
	return got
}

func TestWatcherEmitsOnlyChanges(t *testing.T) {
	// The blank snapshot resets the comparison, so "b" is emitted twice.
	r := &scripted{values: []string{"a", "a", "b", "  ", "b", "c"}}
	w := &Watcher{Reader: r, Interval: time.Millisecond, Log: slog.New(slog.DiscardHandler)}

	got := collect(t, w, 3)
	assert.Equal(t, []string{"a", "b", "b"}, got)
}

func TestWatcherSkipInitial(t *testing.T) {
	r := &scripted{values: []string{"old", "old", "new"}}
	w := &Watcher{Reader: r, Interval: time.Millisecond, SkipInitial: true, Log: slog.New(slog.DiscardHandler)}

	got := collect(t, w, 1)
	assert.Equal(t, []string{"new"}, got)
}

func TestWatcherSurvivesReadErrors(t *testing.T) {
	boom := errors.New("no display")
	r := &scripted{values: []string{"", "", "text"}, errs: []error{boom, boom}}
	w := &Watcher{Reader: r, Interval: time.Millisecond, Log: slog.New(slog.DiscardHandler)}

	got := collect(t, w, 1)
	assert.Equal(t, []string{"text"}, got)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	r := &scripted{values: []string{""}}
	w := &Watcher{Reader: r, Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	ch := w.Run(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
