package render

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vaibhavt896/flowsync-particles/internal/config"
)

// ErrInvalidSurface is returned when the canvas is constructed with
// non-positive dimensions. A missing drawing surface is a fatal
// configuration error: the caller must not start the engine.
var ErrInvalidSurface = errors.New("render: invalid surface dimensions")

var whiteImage *ebiten.Image

func init() {
	// 3x3 white source for DrawTriangles; sampling the center texel avoids
	// bleeding at the edges.
	whiteImage = ebiten.NewImage(3, 3)
	whiteImage.Fill(color.White)
}

// Canvas is the ebiten-backed Surface. Particles are drawn onto an
// offscreen image sized in device pixels, then composited onto the screen
// once per frame with the configured blend mode, so compositing cost is
// paid per surface, not per particle.
type Canvas struct {
	offscreen *ebiten.Image
	blend     ebiten.Blend
	scale     float64
	width     float64 // logical
	height    float64

	vertices [4]ebiten.Vertex
	indices  [6]uint16
}

// NewCanvas creates a canvas with the given logical size, scaled by the
// monitor's device scale factor.
func NewCanvas(width, height int, mode config.BlendMode) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSurface
	}
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	c := &Canvas{
		blend:  blendFor(mode),
		scale:  scale,
		width:  float64(width),
		height: float64(height),
		// Two triangles over a quad; the triangle path uses the first three.
		indices: [6]uint16{0, 1, 2, 0, 2, 3},
	}
	c.offscreen = ebiten.NewImage(int(float64(width)*scale), int(float64(height)*scale))
	return c, nil
}

// blendFor maps the configured mode onto an ebiten blend. Overlay is not
// expressible with factor-based compositing and is approximated by the
// additive lighter blend.
func blendFor(mode config.BlendMode) ebiten.Blend {
	switch mode {
	case config.BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
			BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case config.BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case config.BlendOverlay:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}

// Resize rescales the internal drawing resolution. Non-positive dimensions
// are ignored; particle positions stay valid in logical coordinates.
func (c *Canvas) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = float64(width)
	c.height = float64(height)
	c.offscreen.Deallocate()
	c.offscreen = ebiten.NewImage(int(float64(width)*c.scale), int(float64(height)*c.scale))
}

func (c *Canvas) Size() (w, h float64) { return c.width, c.height }

func (c *Canvas) Clear() { c.offscreen.Clear() }

func (c *Canvas) FillCircle(cx, cy, r float64, clr color.RGBA, alpha float64) {
	vector.DrawFilledCircle(c.offscreen,
		float32(cx*c.scale), float32(cy*c.scale), float32(r*c.scale),
		premultiply(clr, alpha), true)
}

func (c *Canvas) FillPoly(pts []Point, clr color.RGBA, alpha float64) {
	if len(pts) < 3 || len(pts) > 4 {
		return
	}
	cr := float32(clr.R) / 255
	cg := float32(clr.G) / 255
	cb := float32(clr.B) / 255
	ca := float32(alpha)
	for i, pt := range pts {
		c.vertices[i] = ebiten.Vertex{
			DstX:   float32(pt.X * c.scale),
			DstY:   float32(pt.Y * c.scale),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
	}
	n := 3
	if len(pts) == 4 {
		n = 6
	}
	c.offscreen.DrawTriangles(c.vertices[:len(pts)], c.indices[:n], whiteImage,
		&ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// Dispose releases the offscreen image's GPU memory. The canvas must not be
// used afterwards; the host calls this when it swaps in a fresh engine.
func (c *Canvas) Dispose() {
	if c.offscreen != nil {
		c.offscreen.Deallocate()
		c.offscreen = nil
	}
}

// Present composites the offscreen onto dst with the configured blend mode.
func (c *Canvas) Present(dst *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.Blend = c.blend
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(1/c.scale, 1/c.scale)
	dst.DrawImage(c.offscreen, op)
}

func premultiply(clr color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(clr.R)*alpha + 0.5),
		G: uint8(float64(clr.G)*alpha + 0.5),
		B: uint8(float64(clr.B)*alpha + 0.5),
		A: uint8(alpha*255 + 0.5),
	}
}
