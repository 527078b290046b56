package xdshape

import (
	"oss.terrastruct.com/xdsketch/lib/geo"
)

// Box is a rectangle, diamond or ellipse. All three share the rectangle geometry.
type Box struct {
	base

	pos    *geo.Point
	width  float64
	height float64
}

func (b *Box) GetBox() *geo.Box {
	return geo.NewBox(b.pos.Copy(), b.width, b.height)
}

func (b *Box) MoveTo(x, y float64) {
	b.pos = geo.NewPoint(x, y)
}

func (b *Box) Translate(dx, dy float64) {
	b.pos.Translate(dx, dy)
}

// SetSize keeps the size non-negative: a negative extent flips the box around its
// position instead.
func (b *Box) SetSize(width, height float64) *Box {
	if width < 0 {
		b.pos.X += width
		width = -width
	}
	if height < 0 {
		b.pos.Y += height
		height = -height
	}
	b.width = width
	b.height = height
	return b
}

func (b *Box) SetAngle(angle float64) *Box {
	b.angle = angle
	return b
}

func (b *Box) SetStyle(style Style) *Box {
	b.Style = style
	return b
}
