// Package clock measures frame timing for the render loop.
package clock

import "time"

// StatsWindow is how much frame time is accumulated before FPS and the
// average frame time are recomputed.
const StatsWindow = time.Second

// Clock tracks the time between frames and a rolling frame rate.
type Clock struct {
	start time.Time
	last  time.Time

	// Delta is the duration of the last frame in seconds.
	Delta float32
	// FrameTime is the duration of the last frame.
	FrameTime time.Duration

	// FPS and AverageFrameTime are refreshed once per StatsWindow.
	FPS              float64
	AverageFrameTime time.Duration

	sum    time.Duration
	frames int
}

// New returns a clock whose first frame starts at now.
func New(now time.Time) *Clock {
	return &Clock{start: now, last: now}
}

// Tick marks the start of a new frame.
func (c *Clock) Tick(now time.Time) {
	c.FrameTime = now.Sub(c.last)
	if c.FrameTime < 0 {
		c.FrameTime = 0
	}
	c.Delta = float32(c.FrameTime.Seconds())
	c.last = now

	c.sum += c.FrameTime
	c.frames++
	if c.sum >= StatsWindow {
		c.FPS = float64(c.frames) / c.sum.Seconds()
		c.AverageFrameTime = c.sum / time.Duration(c.frames)
		c.sum = 0
		c.frames = 0
	}
}

// Elapsed returns the time since the clock was created.
func (c *Clock) Elapsed() time.Duration {
	return c.last.Sub(c.start)
}
