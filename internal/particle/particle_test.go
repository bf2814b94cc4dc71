package particle

import (
	"math/rand"
	"testing"

	"github.com/vaibhavt896/flowsync-particles/internal/config"
)

func newTestPool(t *testing.T, cap int) *Pool {
	t.Helper()
	opts := config.Default()
	opts.MaxParticles = cap
	if err := opts.Validate(); err != nil {
		t.Fatalf("validate default options: %v", err)
	}
	palette, err := opts.Palette()
	if err != nil {
		t.Fatalf("palette: %v", err)
	}
	return NewPool(opts, palette, rand.New(rand.NewSource(1)))
}

func checkConservation(t *testing.T, p *Pool) {
	t.Helper()
	if p.Active()+p.Free() != p.Cap() {
		t.Fatalf("conservation violated: active %d + free %d != cap %d",
			p.Active(), p.Free(), p.Cap())
	}
}

func TestAcquireRelease(t *testing.T) {
	p := newTestPool(t, 10)
	checkConservation(t, p)

	pt := p.Acquire(5, 7)
	if pt == nil {
		t.Fatal("Acquire returned nil with a non-empty pool")
	}
	if pt.X != 5 || pt.Y != 7 {
		t.Errorf("expected position (5, 7), got (%v, %v)", pt.X, pt.Y)
	}
	if !pt.Active() {
		t.Error("acquired particle is not active")
	}
	if p.Active() != 1 || p.Free() != 9 {
		t.Errorf("expected 1 active / 9 free, got %d / %d", p.Active(), p.Free())
	}
	checkConservation(t, p)

	p.Release(pt)
	if pt.Active() {
		t.Error("released particle is still active")
	}
	if p.Active() != 0 || p.Free() != 10 {
		t.Errorf("expected 0 active / 10 free, got %d / %d", p.Active(), p.Free())
	}
	checkConservation(t, p)
}

func TestAcquireRandomizesWithinRanges(t *testing.T) {
	opts := config.Default()
	opts.MaxParticles = 64
	opts.Size = config.Range{Min: 2, Max: 3}
	opts.Speed = config.Range{Min: 1, Max: 2}
	opts.Lifetime = config.Range{Min: 100, Max: 200}
	palette, _ := opts.Palette()
	p := NewPool(opts, palette, rand.New(rand.NewSource(42)))

	for i := 0; i < 64; i++ {
		pt := p.Acquire(0, 0)
		if pt == nil {
			t.Fatalf("unexpected exhaustion at %d", i)
		}
		if pt.Size < 2 || pt.Size > 3 {
			t.Errorf("size %v outside [2, 3]", pt.Size)
		}
		if pt.MaxLife < 100 || pt.MaxLife > 200 {
			t.Errorf("lifetime %v outside [100, 200]", pt.MaxLife)
		}
		if pt.Life != pt.MaxLife {
			t.Errorf("fresh particle life %v != maxLife %v", pt.Life, pt.MaxLife)
		}
		if pt.Opacity != 1 {
			t.Errorf("fresh particle opacity %v, want 1", pt.Opacity)
		}
		speed := pt.VX*pt.VX + pt.VY*pt.VY
		if speed < 1-1e-9 || speed > 4+1e-9 {
			t.Errorf("speed^2 %v outside [1, 4]", speed)
		}
	}
}

func TestExhaustionReturnsNil(t *testing.T) {
	p := newTestPool(t, 3)
	for i := 0; i < 3; i++ {
		if p.Acquire(0, 0) == nil {
			t.Fatalf("unexpected nil at %d", i)
		}
	}
	if got := p.Acquire(0, 0); got != nil {
		t.Error("expected nil from an exhausted pool")
	}
	checkConservation(t, p)
}

func TestDoubleReleaseIsNoOp(t *testing.T) {
	p := newTestPool(t, 4)
	pt := p.Acquire(0, 0)
	p.Release(pt)
	p.Release(pt) // must not grow the free list past capacity
	if p.Free() != 4 {
		t.Errorf("free count %d after double release, want 4", p.Free())
	}
	checkConservation(t, p)
}

func TestSweepRecyclesDead(t *testing.T) {
	p := newTestPool(t, 8)
	var keep *Particle
	for i := 0; i < 5; i++ {
		pt := p.Acquire(0, 0)
		if i == 2 {
			keep = pt
		} else {
			pt.Life = 0
		}
	}
	p.Sweep()
	if p.Active() != 1 {
		t.Errorf("active %d after sweep, want 1", p.Active())
	}
	if !keep.Active() {
		t.Error("surviving particle was swept")
	}
	if got := len(p.ActiveIndices()); got != 1 {
		t.Errorf("active index list has %d entries after sweep, want 1", got)
	}
	checkConservation(t, p)
}

// Randomized sequence of acquires and releases; the conservation invariant
// must hold after every single operation.
func TestConservationUnderRandomOps(t *testing.T) {
	p := newTestPool(t, 32)
	rng := rand.New(rand.NewSource(7))
	live := make([]*Particle, 0, 32)

	for i := 0; i < 2000; i++ {
		if rng.Intn(2) == 0 {
			if pt := p.Acquire(rng.Float64()*100, rng.Float64()*100); pt != nil {
				live = append(live, pt)
			}
		} else if len(live) > 0 {
			j := rng.Intn(len(live))
			p.Release(live[j])
			live = append(live[:j], live[j+1:]...)
		}
		checkConservation(t, p)
	}
}

func TestReleaseAll(t *testing.T) {
	p := newTestPool(t, 16)
	for i := 0; i < 10; i++ {
		p.Acquire(0, 0)
	}
	p.ReleaseAll()
	if p.Active() != 0 || p.Free() != 16 {
		t.Errorf("after ReleaseAll: %d active / %d free, want 0 / 16", p.Active(), p.Free())
	}
}

// Steady-state churn must not allocate: acquire and release only move
// indices around the pre-allocated arena.
func BenchmarkAcquireRelease(b *testing.B) {
	opts := config.Default()
	opts.MaxParticles = 256
	palette, _ := opts.Palette()
	p := NewPool(opts, palette, rand.New(rand.NewSource(1)))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pt := p.Acquire(10, 10)
		pt.Life = 0
		p.Sweep()
	}
}
