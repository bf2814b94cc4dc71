// Package scheduler drives the engine's tick loop. The frame-timing
// primitive is abstracted as an injectable TickSource so the engine runs the
// same against a real timer, a host render loop, or a test harness.
package scheduler

import (
	"sync"
	"time"
)

// TickSource fires a callback repeatedly until stopped. Implementations must
// tolerate Stop being called more than once.
type TickSource interface {
	Start(fire func())
	Stop()
}

// IntervalSource fires at a fixed wall-clock interval, the closest stand-in
// for a display's frame callback outside a UI runtime.
type IntervalSource struct {
	interval time.Duration

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
}

func NewIntervalSource(interval time.Duration) *IntervalSource {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &IntervalSource{interval: interval}
}

func (s *IntervalSource) Start(fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.interval)
	s.done = make(chan struct{})
	go func(t *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-t.C:
				fire()
			case <-done:
				return
			}
		}
	}(s.ticker, s.done)
}

func (s *IntervalSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.done)
	s.ticker = nil
}

// ManualSource fires only when Fire is called. Used by tests and by hosts
// that own their render loop.
type ManualSource struct {
	fire func()
}

func (s *ManualSource) Start(fire func()) { s.fire = fire }
func (s *ManualSource) Stop()             { s.fire = nil }

// Fire triggers one tick if the source is started.
func (s *ManualSource) Fire() {
	if s.fire != nil {
		s.fire()
	}
}

// Loop turns raw tick firings into delta-timed callbacks. Stop is
// idempotent, terminal and cooperative: a tick already dispatched before
// Stop may complete, but no tick begins afterwards, and a Start arriving
// after (or concurrently with) Stop never arms the source.
type Loop struct {
	src    TickSource
	onTick func(deltaMS float64)

	mu      sync.Mutex
	running bool
	stopped bool
	last    time.Time

	now func() time.Time // injectable clock for tests
}

func NewLoop(src TickSource) *Loop {
	return &Loop{src: src, now: time.Now}
}

func (l *Loop) Start(onTick func(deltaMS float64)) {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.onTick = onTick
	l.last = l.now()
	l.mu.Unlock()

	l.src.Start(l.fire)
}

func (l *Loop) fire() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	now := l.now()
	delta := float64(now.Sub(l.last)) / float64(time.Millisecond)
	l.last = now
	cb := l.onTick
	l.mu.Unlock()

	cb(delta)
}

// Stop always forwards to the source, even when the loop never ran: a Stop
// that loses the race against Start must still shut the source down rather
// than leave its ticker firing no-ops forever.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.running = false
	l.stopped = true
	l.mu.Unlock()

	l.src.Stop()
}

// Running reports whether the loop accepts ticks.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}
