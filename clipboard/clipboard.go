// Package clipboard reads the system clipboard and turns it into a stream of
// new text snapshots.
package clipboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	atotto "github.com/atotto/clipboard"
)

// DefaultPollInterval is how often Watcher reads the clipboard.
const DefaultPollInterval = 500 * time.Millisecond

// Reader reads the current clipboard text.
type Reader interface {
	ReadAll() (string, error)
}

// System reads the desktop clipboard via github.com/atotto/clipboard
// (xclip, xsel or wl-paste on Linux).
type System struct{}

func (System) ReadAll() (string, error) { return atotto.ReadAll() }

// Unsupported reports whether no clipboard utility is available.
func Unsupported() bool { return atotto.Unsupported }

// Watcher polls a Reader and emits text that differs from the previous
// snapshot. Blank text is never emitted.
type Watcher struct {
	Reader   Reader
	Interval time.Duration
	Log      *slog.Logger

	// SkipInitial ignores whatever is on the clipboard when Run starts.
	SkipInitial bool
}

// Run polls until ctx is cancelled. The returned channel is closed when Run
// stops.
func (w *Watcher) Run(ctx context.Context) <-chan string {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	log := w.Log
	if log == nil {
		log = slog.Default()
	}

	out := make(chan string)
	go func() {
		defer close(out)

		var prev string
		if w.SkipInitial {
			prev, _ = w.Reader.ReadAll()
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		failing := false
		for {
			text, err := w.Reader.ReadAll()
			switch {
			case err != nil:
				if !failing {
					log.Warn("failed to read clipboard", "error", err)
					failing = true
				}
			case text != prev:
				failing = false
				prev = text
				if strings.TrimSpace(text) != "" {
					select {
					case out <- text:
					case <-ctx.Done():
						return
					}
				}
			default:
				failing = false
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
