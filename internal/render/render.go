package render

import (
	"math"

	"github.com/vaibhavt896/flowsync-particles/internal/config"
	"github.com/vaibhavt896/flowsync-particles/internal/particle"
)

// Renderer draws active particles in their configured shape. It is a
// read-only pass over particle state and keeps a scratch vertex buffer so
// per-tick drawing does not allocate.
type Renderer struct {
	shape   config.Shape
	scratch [4]Point
}

func NewRenderer(opts *config.Options) *Renderer {
	return &Renderer{shape: opts.ParticleShape}
}

// Render clears the surface and draws every active particle with
// opacity > 0, translated to its position and rotated by its rotation.
func (r *Renderer) Render(s Surface, arena []particle.Particle, active []int) {
	s.Clear()
	for _, idx := range active {
		p := &arena[idx]
		if p.Opacity <= 0 {
			continue
		}
		switch r.shape {
		case config.ShapeSquare:
			r.fillSquare(s, p)
		case config.ShapeTriangle:
			r.fillTriangle(s, p)
		default:
			s.FillCircle(p.X, p.Y, p.Size, p.Color, p.Opacity)
		}
	}
}

// fillSquare draws a rotated square with half-extent p.Size.
func (r *Renderer) fillSquare(s Surface, p *particle.Particle) {
	sin, cos := math.Sincos(p.Rotation)
	// Corner offsets (±Size, ±Size) rotated into place.
	xs := [4]float64{-p.Size, p.Size, p.Size, -p.Size}
	ys := [4]float64{-p.Size, -p.Size, p.Size, p.Size}
	for i := 0; i < 4; i++ {
		r.scratch[i] = Point{
			X: p.X + xs[i]*cos - ys[i]*sin,
			Y: p.Y + xs[i]*sin + ys[i]*cos,
		}
	}
	s.FillPoly(r.scratch[:4], p.Color, p.Opacity)
}

// fillTriangle draws an equilateral triangle circumscribed by p.Size,
// pointing up at zero rotation.
func (r *Renderer) fillTriangle(s Surface, p *particle.Particle) {
	for i := 0; i < 3; i++ {
		a := p.Rotation - math.Pi/2 + float64(i)*2*math.Pi/3
		sin, cos := math.Sincos(a)
		r.scratch[i] = Point{X: p.X + cos*p.Size, Y: p.Y + sin*p.Size}
	}
	s.FillPoly(r.scratch[:3], p.Color, p.Opacity)
}
