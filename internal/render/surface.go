// Package render draws the active particle set onto a 2D surface once per
// tick. The concrete surface is abstracted behind an interface so the engine
// core stays testable without a display; the ebiten-backed Canvas is the
// production implementation.
package render

import "image/color"

// Point is a surface-space coordinate pair.
type Point struct {
	X, Y float64
}

// Surface is the minimal drawing contract the renderer needs. alpha is the
// particle opacity in [0, 1]; implementations apply it on top of clr.
type Surface interface {
	// Size returns the logical drawing area in surface units.
	Size() (w, h float64)
	// Clear wipes the surface; called once per tick before drawing.
	Clear()
	FillCircle(cx, cy, r float64, clr color.RGBA, alpha float64)
	FillPoly(pts []Point, clr color.RGBA, alpha float64)
}
