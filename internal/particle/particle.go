// Package particle implements the particle record and the fixed-capacity
// pool it lives in. Particles are pre-allocated once into an arena and
// recycled through an index free-list; after startup the pool is the sole
// source of particle instances and no further allocation occurs.
package particle

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/vaibhavt896/flowsync-particles/internal/config"
)

// Particle is a pool-owned value record. A particle is either active (in the
// render set) or pooled (on the free list), never both.
type Particle struct {
	X, Y   float64
	VX, VY float64

	Size  float64
	Color color.RGBA

	// Life counts down from MaxLife to 0 in milliseconds; Life <= 0 means
	// the particle is dead and eligible for recycling.
	Life    float64
	MaxLife float64

	// Opacity is derived each tick as Life / MaxLife, clamped to [0, 1].
	Opacity float64

	Rotation      float64
	RotationSpeed float64

	index  int // fixed arena slot
	pos    int // position in the active index list while active
	active bool
}

// Active reports whether the particle currently belongs to the render set.
func (p *Particle) Active() bool { return p.active }

// Pool is a fixed arena of particles plus an index free-list. It is not
// safe for concurrent use; the engine serializes access.
type Pool struct {
	arena  []Particle
	free   []int
	actIdx []int

	palette []color.RGBA
	size    config.Range
	speed   config.Range
	life    config.Range
	rng     *rand.Rand
}

// NewPool pre-allocates capacity particles. This is the only place particle
// memory is allocated.
func NewPool(opts *config.Options, palette []color.RGBA, rng *rand.Rand) *Pool {
	capacity := opts.MaxParticles
	p := &Pool{
		arena:   make([]Particle, capacity),
		free:    make([]int, 0, capacity),
		actIdx:  make([]int, 0, capacity),
		palette: palette,
		size:    opts.Size,
		speed:   opts.Speed,
		life:    opts.Lifetime,
		rng:     rng,
	}
	for i := capacity - 1; i >= 0; i-- {
		p.arena[i].index = i
		p.free = append(p.free, i)
	}
	return p
}

// Acquire pops a free particle, re-randomizes its properties from the
// configured ranges and places it at (x, y). It returns nil when the pool is
// exhausted; callers treat that as "effect silently capped", not an error.
func (p *Pool) Acquire(x, y float64) *Particle {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]

	pt := &p.arena[idx]
	pt.X = x
	pt.Y = y

	angle := p.rng.Float64() * 2 * math.Pi
	speed := p.sample(p.speed)
	pt.VX = math.Cos(angle) * speed
	pt.VY = math.Sin(angle) * speed

	pt.Size = p.sample(p.size)
	pt.Color = p.palette[p.rng.Intn(len(p.palette))]

	pt.MaxLife = p.sample(p.life)
	pt.Life = pt.MaxLife
	pt.Opacity = 1

	pt.Rotation = p.rng.Float64() * 2 * math.Pi
	pt.RotationSpeed = (p.rng.Float64()*2 - 1) * 0.1

	pt.active = true
	pt.pos = len(p.actIdx)
	p.actIdx = append(p.actIdx, idx)
	return pt
}

// Release returns a particle to the free list and removes it from the active
// set with a swap-remove. Releasing a particle that is already pooled is a
// no-op, and the free list never grows past capacity, so a stray
// double-release cannot corrupt the pool.
func (p *Pool) Release(pt *Particle) {
	if !pt.active || len(p.free) >= len(p.arena) {
		return
	}
	pt.active = false
	pt.Life = 0
	pt.Opacity = 0

	last := len(p.actIdx) - 1
	moved := p.actIdx[last]
	p.actIdx[pt.pos] = moved
	p.arena[moved].pos = pt.pos
	p.actIdx = p.actIdx[:last]

	p.free = append(p.free, pt.index)
}

// Sweep releases every active particle whose life has run out. Iterating
// backwards keeps the swap-remove in Release from skipping entries.
func (p *Pool) Sweep() {
	for i := len(p.actIdx) - 1; i >= 0; i-- {
		pt := &p.arena[p.actIdx[i]]
		if pt.Life <= 0 {
			p.Release(pt)
		}
	}
}

// ReleaseAll forcibly returns every active particle to the free list.
func (p *Pool) ReleaseAll() {
	for len(p.actIdx) > 0 {
		p.Release(&p.arena[p.actIdx[len(p.actIdx)-1]])
	}
}

// Arena exposes the backing storage for the batched integrator and the
// renderer. Callers must not grow or reorder it.
func (p *Pool) Arena() []Particle { return p.arena }

// ActiveIndices returns the indices of the current render set.
func (p *Pool) ActiveIndices() []int { return p.actIdx }

// Active returns the number of particles in the render set.
func (p *Pool) Active() int { return len(p.actIdx) }

// Free returns the number of pooled particles.
func (p *Pool) Free() int { return len(p.free) }

// Cap returns the fixed pool capacity.
func (p *Pool) Cap() int { return len(p.arena) }

func (p *Pool) sample(r config.Range) float64 {
	return r.Min + p.rng.Float64()*(r.Max-r.Min)
}
