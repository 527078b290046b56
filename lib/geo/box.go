package geo

import (
	"fmt"
	"math"
)

type Box struct {
	TopLeft *Point
	Width   float64
	Height  float64
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

func (b *Box) Copy() *Box {
	if b == nil {
		return nil
	}
	return NewBox(b.TopLeft.Copy(), b.Width, b.Height)
}

func (b *Box) Center() *Point {
	return NewPoint(b.TopLeft.X+b.Width/2, b.TopLeft.Y+b.Height/2)
}

// Bounds returns the corners as (x0, y0, x1, y1).
func (b *Box) Bounds() (x0, y0, x1, y1 float64) {
	return b.TopLeft.X, b.TopLeft.Y, b.TopLeft.X + b.Width, b.TopLeft.Y + b.Height
}

func (b *Box) Left() float64   { return b.TopLeft.X }
func (b *Box) Top() float64    { return b.TopLeft.Y }
func (b *Box) Right() float64  { return b.TopLeft.X + b.Width }
func (b *Box) Bottom() float64 { return b.TopLeft.Y + b.Height }

func (b *Box) Equals(other *Box) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.TopLeft.Equals(other.TopLeft) && b.Width == other.Width && b.Height == other.Height
}

// Union returns the smallest box containing both b and other.
func (b *Box) Union(other *Box) *Box {
	if b == nil {
		return other.Copy()
	}
	if other == nil {
		return b.Copy()
	}
	x0 := math.Min(b.Left(), other.Left())
	y0 := math.Min(b.Top(), other.Top())
	x1 := math.Max(b.Right(), other.Right())
	y1 := math.Max(b.Bottom(), other.Bottom())
	return NewBox(NewPoint(x0, y0), x1-x0, y1-y0)
}

// Contains reports whether other lies inside b, edges included.
func (b *Box) Contains(other *Box) bool {
	return other.Left() >= b.Left() && other.Top() >= b.Top() &&
		other.Right() <= b.Right() && other.Bottom() <= b.Bottom()
}

// Overlaps reports whether the interiors of b and other intersect.
// Boxes that only share an edge do not overlap.
func (b *Box) Overlaps(other *Box) bool {
	return b.Left() < other.Right() && other.Left() < b.Right() &&
		b.Top() < other.Bottom() && other.Top() < b.Bottom()
}

// Pad grows the box by padding on every side.
func (b *Box) Pad(padding float64) *Box {
	return NewBox(NewPoint(b.TopLeft.X-padding, b.TopLeft.Y-padding), b.Width+2*padding, b.Height+2*padding)
}

// exitsVertically reports whether a ray from the center at theta leaves the box through
// its left or right edge.
func (b *Box) exitsVertically(theta float64) bool {
	limit := math.Atan2(b.Height, b.Width)
	abs := math.Abs(theta)
	return abs < limit || abs > math.Pi-limit
}

// BoundaryPoint returns where the ray from the center at angle theta (radians from the
// positive x-axis, y down) leaves the box.
//
// .        theta
// .  ┌──────────/──┐
// .  │         /   │
// .  │        c    │
// .  │             │
// .  └─────────────┘
func (b *Box) BoundaryPoint(theta float64) *Point {
	theta = NormalizeAngle(theta)
	c := b.Center()
	cos, sin := math.Cos(theta), math.Sin(theta)
	var t float64
	if b.exitsVertically(theta) {
		t = (b.Width / 2) / math.Abs(cos)
	} else {
		t = (b.Height / 2) / math.Abs(sin)
	}
	if math.IsInf(t, 0) || math.IsNaN(t) {
		return c
	}
	return NewPoint(c.X+t*cos, c.Y+t*sin)
}

// EdgeMidpoint snaps theta to the nearest of the four edge midpoints and pushes it
// outward by padding.
func (b *Box) EdgeMidpoint(theta, padding float64) *Point {
	theta = NormalizeAngle(theta)
	c := b.Center()
	if b.exitsVertically(theta) {
		if math.Abs(theta) < math.Pi/2 {
			return NewPoint(b.Right()+padding, c.Y)
		}
		return NewPoint(b.Left()-padding, c.Y)
	}
	if theta > 0 {
		return NewPoint(c.X, b.Bottom()+padding)
	}
	return NewPoint(c.X, b.Top()-padding)
}

func (b *Box) ToString() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("{TopLeft: %s, Width: %.0f, Height: %.0f}", b.TopLeft.ToString(), b.Width, b.Height)
}
