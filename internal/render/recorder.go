package render

import "image/color"

// Op is one recorded drawing call.
type Op struct {
	Kind   string // "clear", "circle", "poly"
	X, Y   float64
	Radius float64
	Points []Point
	Color  color.RGBA
	Alpha  float64
}

// Recorder is an in-memory Surface that records every drawing call. It backs
// the engine and renderer tests, including the guarantee that nothing is
// drawn after Destroy.
type Recorder struct {
	W, H float64
	Ops  []Op
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (w, h float64) { return r.W, r.H }

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: "clear"})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, clr color.RGBA, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: "circle", X: cx, Y: cy, Radius: radius, Color: clr, Alpha: alpha})
}

func (r *Recorder) FillPoly(pts []Point, clr color.RGBA, alpha float64) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{Kind: "poly", Points: cp, Color: clr, Alpha: alpha})
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
