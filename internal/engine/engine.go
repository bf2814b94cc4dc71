// Package engine is the public face of the particle system. It owns the
// pool, integrator, renderer and scheduler, and exposes the small imperative
// API the host UI calls: spawn a burst, query stats, resize, destroy.
package engine

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vaibhavt896/flowsync-particles/internal/config"
	"github.com/vaibhavt896/flowsync-particles/internal/particle"
	"github.com/vaibhavt896/flowsync-particles/internal/physics"
	"github.com/vaibhavt896/flowsync-particles/internal/render"
	"github.com/vaibhavt896/flowsync-particles/internal/scheduler"
)

// ErrNoSurface is returned when the engine is constructed without a drawing
// surface. This is fatal: the caller must not start the engine.
var ErrNoSurface = errors.New("engine: no drawing surface")

// State is the engine lifecycle. Stopped is terminal; construct a new
// engine instead of restarting.
type State int

const (
	StateRunning State = iota
	StateStopped
)

// Stats is the opaque performance snapshot handed to external code.
type Stats struct {
	FPS        int
	Active     int
	Pooled     int
	AvgFrameMS float64
}

// Resizable is implemented by surfaces whose drawing resolution can change
// at runtime (the ebiten canvas does; the test recorder does not need to).
type Resizable interface {
	Resize(width, height int)
}

// Engine composes the particle subsystems. All methods are safe for
// concurrent use; a single mutex serializes ticks and external calls, which
// never contend in the common single-goroutine hosting setup.
type Engine struct {
	mu sync.Mutex

	opts    *config.Options
	pool    *particle.Pool
	phys    *physics.Integrator
	rend    *render.Renderer
	clock   *scheduler.Clock
	loop    *scheduler.Loop
	surface render.Surface
	rng     *rand.Rand

	target  int // advisory ambient particle count
	seedAcc float64
	state   State
}

// New builds a running engine drawing to surface. A nil surface is a fatal
// configuration error. A nil opts means defaults; a nil rng means a
// time-seeded one (tests pass a fixed seed).
func New(opts *config.Options, surface render.Surface, rng *rand.Rand) (*Engine, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if opts == nil {
		opts = config.Default()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	palette, err := opts.Palette()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w, h := surface.Size()
	return &Engine{
		opts:    opts,
		pool:    particle.NewPool(opts, palette, rng),
		phys:    physics.NewIntegrator(opts, w, h),
		rend:    render.NewRenderer(opts),
		clock:   scheduler.NewClock(),
		surface: surface,
		rng:     rng,
		target:  opts.Count,
		state:   StateRunning,
	}, nil
}

// Start drives the engine from the given tick source. Hosts that own a
// render loop skip Start and call Tick themselves.
func (e *Engine) Start(src scheduler.TickSource) {
	e.mu.Lock()
	if e.state == StateStopped || e.loop != nil {
		e.mu.Unlock()
		return
	}
	loop := scheduler.NewLoop(src)
	e.loop = loop
	e.mu.Unlock()

	loop.Start(e.Tick)
}

// Tick advances the simulation by deltaMS milliseconds: integrate, recycle
// dead particles, reseed ambient ones, then draw. After Destroy it is a
// no-op and the surface is never touched again.
func (e *Engine) Tick(deltaMS float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped || deltaMS <= 0 {
		return
	}

	e.clock.Observe(deltaMS)

	arena := e.pool.Arena()
	e.phys.Update(arena, e.pool.ActiveIndices(), deltaMS)
	e.pool.Sweep()
	e.seedAmbient(deltaMS)

	e.rend.Render(e.surface, arena, e.pool.ActiveIndices())
}

// seedAmbient trickles particles back in while the active set is below the
// advisory target, rate-limited by a fractional accumulator so reseeding is
// spread across ticks rather than bursting after a lull.
func (e *Engine) seedAmbient(deltaMS float64) {
	if e.target <= 0 || e.pool.Active() >= e.target {
		e.seedAcc = 0
		return
	}
	e.seedAcc += config.AmbientRate * deltaMS / config.BaselineFrameMS
	w, h := e.surface.Size()
	for e.seedAcc >= 1 && e.pool.Active() < e.target {
		e.seedAcc--
		p := e.pool.Acquire(e.rng.Float64()*w, e.rng.Float64()*h)
		if p == nil {
			return
		}
		p.VX *= config.AmbientDrift
		p.VY *= config.AmbientDrift
	}
}

// CreateBurst attempts intensity acquisitions at (x, y) with randomized
// jitter. Pool exhaustion silently caps the burst; intensity is a
// best-effort upper bound, never a guarantee. Non-positive intensity means
// the default burst of 10.
func (e *Engine) CreateBurst(x, y float64, intensity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped {
		return
	}
	if intensity <= 0 {
		intensity = 10
	}
	for i := 0; i < intensity; i++ {
		jx := x + (e.rng.Float64()*2-1)*config.BurstJitter
		jy := y + (e.rng.Float64()*2-1)*config.BurstJitter
		if e.pool.Acquire(jx, jy) == nil {
			return
		}
	}
}

// SetParticleCount stores a target ambient count, clamped to the pool
// capacity. It is advisory: nothing spawns or despawns immediately, the
// ambient seeding in future ticks converges on it.
func (e *Engine) SetParticleCount(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n > e.pool.Cap() {
		n = e.pool.Cap()
	}
	e.target = n
}

// Stats returns a performance snapshot.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		FPS:        e.clock.FPS(),
		Active:     e.pool.Active(),
		Pooled:     e.pool.Free(),
		AvgFrameMS: e.clock.AvgFrameMS(),
	}
}

// Resize rescales the drawing resolution without resetting particle state.
// Zero or negative dimensions are ignored.
func (e *Engine) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped || width <= 0 || height <= 0 {
		return
	}
	e.phys.SetBounds(float64(width), float64(height))
	if rs, ok := e.surface.(Resizable); ok {
		rs.Resize(width, height)
	}
}

// Destroy stops the scheduler and returns every active particle to the
// pool. It is idempotent and terminal; after it returns the engine never
// writes to the surface again.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.state == StateStopped {
		e.mu.Unlock()
		return
	}
	e.state = StateStopped
	e.pool.ReleaseAll()
	loop := e.loop
	e.loop = nil
	e.mu.Unlock()

	if loop != nil {
		loop.Stop()
	}
}

// State reports the engine lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
