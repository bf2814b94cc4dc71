package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	if o.Count > o.MaxParticles {
		t.Errorf("default count %d exceeds maxParticles %d", o.Count, o.MaxParticles)
	}
}

func TestValidateClamps(t *testing.T) {
	o := Default()
	o.Count = 5000
	o.MaxParticles = 100
	o.ParticleShape = "hexagon"
	o.BlendMode = "darken"
	o.Drag = 3.5
	o.Size = Range{Min: 4, Max: 2}

	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.Count != 100 {
		t.Errorf("count = %d, want clamped to 100", o.Count)
	}
	if o.ParticleShape != ShapeCircle {
		t.Errorf("shape = %q, want fallback circle", o.ParticleShape)
	}
	if o.BlendMode != BlendNormal {
		t.Errorf("blend = %q, want fallback normal", o.BlendMode)
	}
	if o.Drag != Default().Drag {
		t.Errorf("drag = %v, want default", o.Drag)
	}
	if o.Size.Max < o.Size.Min {
		t.Errorf("size range still inverted: %+v", o.Size)
	}
}

func TestValidateZeroValueGetsDefaults(t *testing.T) {
	var o Options
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if o.MaxParticles <= 0 || len(o.Colors) == 0 {
		t.Errorf("zero options not filled in: %+v", o)
	}
}

func TestPalette(t *testing.T) {
	o := Default()
	o.Colors = []string{"#ff0000", "#00ff00"}
	pal, err := o.Palette()
	if err != nil {
		t.Fatalf("Palette: %v", err)
	}
	if len(pal) != 2 {
		t.Fatalf("palette size %d, want 2", len(pal))
	}
	if pal[0].R != 255 || pal[0].G != 0 || pal[0].B != 0 || pal[0].A != 255 {
		t.Errorf("pal[0] = %+v, want opaque red", pal[0])
	}

	o.Colors = []string{"#ff0000", "chartreuse"}
	if err := o.Validate(); err == nil {
		t.Error("expected an error for an unparseable palette entry")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.json")
	doc := `{
		"maxParticles": 300,
		"colors": ["#112233"],
		"particleShape": "triangle",
		"blendMode": "screen",
		"lifetime": {"min": 1000, "max": 1500}
	}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if o.MaxParticles != 300 {
		t.Errorf("maxParticles = %d, want 300", o.MaxParticles)
	}
	if o.ParticleShape != ShapeTriangle || o.BlendMode != BlendScreen {
		t.Errorf("shape/blend = %q/%q, want triangle/screen", o.ParticleShape, o.BlendMode)
	}
	if o.Lifetime.Min != 1000 || o.Lifetime.Max != 1500 {
		t.Errorf("lifetime = %+v, want {1000 1500}", o.Lifetime)
	}
	// Untouched keys keep their defaults.
	if !o.EnablePhysics {
		t.Error("enablePhysics default lost in overlay")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
