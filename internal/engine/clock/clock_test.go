package clock

import (
	"testing"
	"time"
)

func TestTickDelta(t *testing.T) {
	start := time.Unix(100, 0)
	c := New(start)
	c.Tick(start.Add(250 * time.Millisecond))

	if c.Delta != 0.25 {
		t.Errorf("Delta = %v, want 0.25", c.Delta)
	}
	if c.FrameTime != 250*time.Millisecond {
		t.Errorf("FrameTime = %v, want 250ms", c.FrameTime)
	}
	if c.FPS != 0 {
		t.Errorf("FPS before first window = %v, want 0", c.FPS)
	}
}

func TestStatsWindow(t *testing.T) {
	now := time.Unix(0, 0)
	c := New(now)
	for i := 0; i < 100; i++ {
		now = now.Add(10 * time.Millisecond)
		c.Tick(now)
	}

	if c.FPS < 99.99 || c.FPS > 100.01 {
		t.Errorf("FPS = %v, want 100", c.FPS)
	}
	if c.AverageFrameTime != 10*time.Millisecond {
		t.Errorf("AverageFrameTime = %v, want 10ms", c.AverageFrameTime)
	}
	if c.Elapsed() != time.Second {
		t.Errorf("Elapsed = %v, want 1s", c.Elapsed())
	}

	// The window restarts: a slow frame does not change the published stats
	// until another second has accumulated.
	now = now.Add(500 * time.Millisecond)
	c.Tick(now)
	if c.FPS < 99.99 || c.FPS > 100.01 {
		t.Errorf("FPS changed mid-window: %v", c.FPS)
	}
	now = now.Add(500 * time.Millisecond)
	c.Tick(now)
	if c.FPS != 2 {
		t.Errorf("FPS after second window = %v, want 2", c.FPS)
	}
}

func TestTickBackwardsClamps(t *testing.T) {
	start := time.Unix(10, 0)
	c := New(start)
	c.Tick(start.Add(-time.Second))
	if c.Delta != 0 {
		t.Errorf("Delta = %v, want 0 for a clock going backwards", c.Delta)
	}
}
