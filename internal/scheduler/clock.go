package scheduler

import (
	"math"

	"github.com/vaibhavt896/flowsync-particles/internal/config"
)

// Clock tracks tick timing statistics. FPS is an instantaneous sample taken
// every 60th tick, not a rolling average; recent frame intervals are also
// kept in a fixed ring buffer for an averaged view.
type Clock struct {
	ticks int
	fps   int

	ring      [config.FrameRingSize]float64
	nextIndex int
	filled    int
}

func NewClock() *Clock {
	return &Clock{}
}

// Observe records one tick's delta time in milliseconds.
func (c *Clock) Observe(deltaMS float64) {
	c.ticks++
	if c.ticks%config.FPSSampleInterval == 0 && deltaMS > 0 {
		c.fps = int(math.Round(1000 / deltaMS))
	}

	c.ring[c.nextIndex] = deltaMS
	c.nextIndex++
	if c.nextIndex >= len(c.ring) {
		c.nextIndex = 0
	}
	if c.filled < len(c.ring) {
		c.filled++
	}
}

// FPS returns the most recent sampled frame rate, 0 before the first sample.
func (c *Clock) FPS() int { return c.fps }

// Ticks returns the total number of observed ticks.
func (c *Clock) Ticks() int { return c.ticks }

// AvgFrameMS returns the mean of the buffered frame intervals, 0 when no
// tick has been observed yet.
func (c *Clock) AvgFrameMS() float64 {
	if c.filled == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < c.filled; i++ {
		sum += c.ring[i]
	}
	return sum / float64(c.filled)
}
