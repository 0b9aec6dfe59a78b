package game

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

// step advances the clock one second and ticks e.
func (c *testClock) step(e *Engine) TickReport {
	c.t = c.t.Add(time.Second)
	return e.Tick()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// calmCatalog is the default catalog without random market or news events.
func calmCatalog(t *testing.T) *Catalog {
	t.Helper()
	def, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	c := *def
	c.MarketEvents = nil
	c.NewsEvents = nil
	return &c
}

func newTestEngine(t *testing.T, cat *Catalog) (*Engine, *testClock) {
	t.Helper()
	if cat == nil {
		cat = calmCatalog(t)
	}
	clock := &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	e, err := NewEngine(Options{Catalog: cat, Seed: 42, Clock: clock.Now, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, clock
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
