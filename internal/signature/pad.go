// Package signature implements the signature capture surface: a
// pointer-tracking state machine that samples positions into a raster and
// reports the finalized mark as a PNG data URL.
package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"
)

// Rect is an on-screen bounding rectangle, in screen coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Point is a surface-local coordinate.
type Point struct {
	X float64
	Y float64
}

const defaultLineWidth = 2

// Pad turns a sequence of pointer or touch positions into a verification
// artifact. The surface pixel dimensions are fixed at construction from the
// mounted size; Remeasure re-syncs the screen rectangle after a layout
// change without touching the raster.
type Pad struct {
	screen Rect
	img    *image.RGBA
	ink    color.Color

	drawing bool
	hasInk  bool
	last    Point

	// Finalized receives the encoded artifact when a stroke that produced
	// ink ends, and the empty string when the pad is cleared.
	Finalized func(dataURL string)
	// Cleared fires after an explicit Clear, separately from Finalized.
	Cleared func()
}

// NewPad creates a pad whose raster matches the mounted screen rectangle.
func NewPad(screen Rect) *Pad {
	w := int(math.Round(screen.Width))
	h := int(math.Round(screen.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Pad{
		screen: screen,
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		ink:    color.Black,
	}
}

// Remeasure updates the screen rectangle used for coordinate translation.
// The raster keeps its original pixel dimensions.
func (p *Pad) Remeasure(screen Rect) {
	p.screen = screen
}

// HasInk reports whether any stroke has marked the surface since the last
// clear.
func (p *Pad) HasInk() bool {
	return p.hasInk
}

// Image exposes the current raster content.
func (p *Pad) Image() image.Image {
	return p.img
}

func (p *Pad) translate(x, y float64) Point {
	return Point{X: x - p.screen.Left, Y: y - p.screen.Top}
}

// PointerDown begins a stroke at the given screen coordinate.
func (p *Pad) PointerDown(x, y float64) {
	p.drawing = true
	p.last = p.translate(x, y)
}

// PointerMove extends the current stroke with a straight segment. Moves
// outside a stroke are ignored.
func (p *Pad) PointerMove(x, y float64) {
	if !p.drawing {
		return
	}
	pt := p.translate(x, y)
	p.segment(p.last, pt)
	p.last = pt
	p.hasInk = true
}

// PointerUp ends the stroke, emitting the artifact if ink was produced.
func (p *Pad) PointerUp() {
	p.endStroke()
}

// PointerLeave ends the stroke the same way PointerUp does.
func (p *Pad) PointerLeave() {
	p.endStroke()
}

// TouchStart begins a stroke from a touch event.
func (p *Pad) TouchStart(x, y float64) {
	p.PointerDown(x, y)
}

// TouchMove extends the current stroke from a touch event.
func (p *Pad) TouchMove(x, y float64) {
	p.PointerMove(x, y)
}

// TouchEnd ends the stroke from a touch event.
func (p *Pad) TouchEnd() {
	p.endStroke()
}

func (p *Pad) endStroke() {
	if !p.drawing {
		return
	}
	p.drawing = false
	if !p.hasInk {
		return
	}
	if p.Finalized != nil {
		p.Finalized(p.DataURL())
	}
}

// Clear wipes the raster, resets the ink state, emits the empty artifact to
// Finalized, and then fires Cleared. The two notifications are distinct
// effects and both always happen.
func (p *Pad) Clear() {
	draw.Draw(p.img, p.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	p.drawing = false
	p.hasInk = false
	if p.Finalized != nil {
		p.Finalized("")
	}
	if p.Cleared != nil {
		p.Cleared()
	}
}

// DataURL encodes the current raster content as a base64 PNG data URL.
func (p *Pad) DataURL() string {
	var buf bytes.Buffer
	_ = png.Encode(&buf, p.img)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// segment rasterizes an antialiased thick line from a to b.
func (p *Pad) segment(a, b Point) {
	half := defaultLineWidth / 2.0
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)

	bounds := p.img.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())

	if length == 0 {
		// Degenerate segment: stamp a small square at the point.
		z.MoveTo(float32(a.X-half), float32(a.Y-half))
		z.LineTo(float32(a.X+half), float32(a.Y-half))
		z.LineTo(float32(a.X+half), float32(a.Y+half))
		z.LineTo(float32(a.X-half), float32(a.Y+half))
	} else {
		nx, ny := -dy/length*half, dx/length*half
		z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		z.LineTo(float32(b.X+nx), float32(b.Y+ny))
		z.LineTo(float32(b.X-nx), float32(b.Y-ny))
		z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	}
	z.ClosePath()
	z.Draw(p.img, bounds, image.NewUniform(p.ink), image.Point{})
}
