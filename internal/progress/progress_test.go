package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFuncForwards(t *testing.T) {
	var gotDone, gotTotal int
	r := Func(func(done, total int) { gotDone, gotTotal = done, total })
	r.Step(3, 9)
	assert.Equal(t, 3, gotDone)
	assert.Equal(t, 9, gotTotal)
}

func TestDiscard(t *testing.T) {
	// Must simply not panic.
	Discard.Step(0, 0)
	Discard.Step(5, 10)
}

func TestLogRateLimit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	l := NewLog(logger, "sweep", time.Hour)

	for i := 1; i <= 99; i++ {
		l.Step(i, 100)
	}
	lines := strings.Count(buf.String(), "\n")
	assert.Equal(t, 1, lines, "only the first update fits inside the interval")

	// The terminal update always logs.
	l.Step(100, 100)
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "pct=100")
	assert.Contains(t, out, "task=sweep")
}

func TestLogZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewTextHandler(&buf, nil)), "noop", 0)
	l.Step(0, 0)
	assert.Contains(t, buf.String(), "pct=0")
}
