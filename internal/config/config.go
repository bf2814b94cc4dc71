// Package config holds the engine's tunable parameters: the options object
// recognized at construction, defaults, validation and JSON file loading.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	// BaselineFrameMS is the reference frame duration used for delta-time
	// normalization: motion tuned at 60fps stays the same speed at any rate.
	BaselineFrameMS = 1000.0 / 60.0

	// FPSSampleInterval is how many ticks pass between FPS samples.
	FPSSampleInterval = 60

	// FrameRingSize is the capacity of the scheduler's frame-time ring buffer.
	FrameRingSize = 120

	// BurstJitter is the spawn position spread around a burst point, in
	// surface units (±).
	BurstJitter = 20.0

	// BatchThreshold is the active-particle count above which the integrator
	// switches to the batched update path.
	BatchThreshold = 100

	// AmbientRate is how many ambient particles may be reseeded per
	// normalized tick while the active set is below the ambient target.
	AmbientRate = 2.0

	// AmbientDrift scales down the randomized velocity of ambient particles
	// so background motion stays slow relative to bursts.
	AmbientDrift = 0.25
)

// Shape selects the primitive drawn for each particle.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"
)

// BlendMode selects the surface-wide compositing operation.
type BlendMode string

const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"
	BlendScreen   BlendMode = "screen"
	BlendOverlay  BlendMode = "overlay"
)

// Range is an inclusive [Min, Max] interval sampled uniformly at spawn time.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Options is the engine construction configuration.
type Options struct {
	// Count is the initial ambient particle target, clamped to MaxParticles.
	Count int `json:"count"`
	// MaxParticles is the hard cap and drives the pool size.
	MaxParticles int `json:"maxParticles"`
	// Colors is the palette, cycled randomly at spawn. Hex strings.
	Colors []string `json:"colors"`

	Size     Range `json:"size"`
	Speed    Range `json:"speed"`
	Lifetime Range `json:"lifetime"` // milliseconds

	EnablePhysics bool `json:"enablePhysics"`
	// EnableCollisions is reserved; accepted and stored but currently a no-op.
	EnableCollisions bool `json:"enableCollisions"`
	EnableCulling    bool `json:"enableCulling"`

	ParticleShape Shape     `json:"particleShape"`
	BlendMode     BlendMode `json:"blendMode"`

	// Gravity is vertical acceleration per normalized tick; Drag is the
	// per-tick velocity retention factor. Both apply only when
	// EnablePhysics is set.
	Gravity float64 `json:"gravity"`
	Drag    float64 `json:"drag"`
}

// Default returns the options used when the host passes nothing.
func Default() *Options {
	return &Options{
		Count:         50,
		MaxParticles:  200,
		Colors:        []string{"#6366f1", "#8b5cf6", "#ec4899", "#3b82f6"},
		Size:          Range{Min: 1, Max: 4},
		Speed:         Range{Min: 0.3, Max: 1.8},
		Lifetime:      Range{Min: 2000, Max: 5000},
		EnablePhysics: true,
		EnableCulling: true,
		ParticleShape: ShapeCircle,
		BlendMode:     BlendNormal,
		Gravity:       0.02,
		Drag:          0.99,
	}
}

// Validate normalizes the options in place: out-of-range values are clamped
// or reset to defaults rather than rejected, so a partially filled document
// still yields a working engine. Only an unusable palette is an error.
func (o *Options) Validate() error {
	def := Default()

	if o.MaxParticles <= 0 {
		o.MaxParticles = def.MaxParticles
	}
	if o.Count < 0 {
		o.Count = 0
	}
	if o.Count > o.MaxParticles {
		o.Count = o.MaxParticles
	}
	if len(o.Colors) == 0 {
		o.Colors = def.Colors
	}

	clampRange(&o.Size, def.Size)
	clampRange(&o.Speed, def.Speed)
	clampRange(&o.Lifetime, def.Lifetime)

	switch o.ParticleShape {
	case ShapeCircle, ShapeSquare, ShapeTriangle:
	default:
		o.ParticleShape = ShapeCircle
	}
	switch o.BlendMode {
	case BlendNormal, BlendMultiply, BlendScreen, BlendOverlay:
	default:
		o.BlendMode = BlendNormal
	}

	if o.Drag <= 0 || o.Drag > 1 {
		o.Drag = def.Drag
	}

	if _, err := o.Palette(); err != nil {
		return err
	}
	return nil
}

func clampRange(r *Range, def Range) {
	if r.Min <= 0 && r.Max <= 0 {
		*r = def
		return
	}
	if r.Min < 0 {
		r.Min = 0
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
}

// Palette parses the configured hex colors into concrete RGBA values.
func (o *Options) Palette() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(o.Colors))
	for _, s := range o.Colors {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("palette color %q: %w", s, err)
		}
		out = append(out, color.RGBA{
			R: uint8(c.R*255 + 0.5),
			G: uint8(c.G*255 + 0.5),
			B: uint8(c.B*255 + 0.5),
			A: 255,
		})
	}
	return out, nil
}

// Load reads a JSON options document overlaid on the defaults.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	o := Default()
	if err := json.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}
