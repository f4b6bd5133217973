// Package progress defines the reporting collaborator injected into
// long-running grid scans. Engines call Step at outer-loop boundaries
// only and depend on no side effect of the reporter; cancellation is
// carried separately by context.Context.
package progress

import (
	"log/slog"
	"time"
)

// Reporter receives coarse completion updates from a running scan.
// done counts completed outer iterations out of total. Implementations
// must be cheap; they are called on the hot path's outer loop.
type Reporter interface {
	Step(done, total int)
}

// Func adapts a plain function to the Reporter interface.
type Func func(done, total int)

// Step implements Reporter.
func (f Func) Step(done, total int) { f(done, total) }

// Discard is a Reporter that ignores every update.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Step(int, int) {}

// Log is a rate-limited Reporter that writes percentage progress to a
// structured logger. Zero value is not usable; construct with NewLog.
type Log struct {
	logger *slog.Logger
	label  string
	every  time.Duration
	last   time.Time
}

// NewLog returns a Reporter logging at most once per interval.
func NewLog(logger *slog.Logger, label string, every time.Duration) *Log {
	return &Log{logger: logger, label: label, every: every}
}

// Step implements Reporter. The final update (done == total) is always
// logged so runs end with a 100% line.
func (l *Log) Step(done, total int) {
	now := time.Now()
	if done < total && now.Sub(l.last) < l.every {
		return
	}
	l.last = now
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(done) / float64(total)
	}
	l.logger.Info("progress", "task", l.label, "done", done, "total", total, "pct", int(pct))
}
