package xdshape

import (
	"oss.terrastruct.com/xdsketch/lib/geo"
)

type Arrowhead string

const (
	NoArrowhead       Arrowhead = ""
	ArrowArrowhead    Arrowhead = "arrow"
	BarArrowhead      Arrowhead = "bar"
	DotArrowhead      Arrowhead = "dot"
	TriangleArrowhead Arrowhead = "triangle"
)

// Binding records which shape an end of a line is attached to.
type Binding struct {
	ElementID string
	Focus     float64
	Gap       float64
}

// Line is a polyline. Points are relative to the position and the first one is always
// (0, 0). Arrows are lines of KindArrow.
type Line struct {
	base

	pos    *geo.Point
	points geo.Points

	StartBinding   *Binding
	EndBinding     *Binding
	StartArrowhead Arrowhead
	EndArrowhead   Arrowhead
}

// Position is the absolute location of the first point.
func (l *Line) Position() *geo.Point {
	return l.pos.Copy()
}

func (l *Line) Points() geo.Points {
	return l.points.Copy()
}

// Size is the extent of the points.
func (l *Line) Size() (width, height float64) {
	b := l.points.Bounds()
	return b.Width, b.Height
}

// GetBox is the envelope of the absolute points, which differs from the position when
// some point lies above or left of the first one.
func (l *Line) GetBox() *geo.Box {
	b := l.points.Bounds()
	b.TopLeft.Translate(l.pos.X, l.pos.Y)
	return b
}

func (l *Line) MoveTo(x, y float64) {
	b := l.GetBox()
	l.Translate(x-b.TopLeft.X, y-b.TopLeft.Y)
}

func (l *Line) Translate(dx, dy float64) {
	l.pos.Translate(dx, dy)
}

// SetPoints re-anchors pts so the first point is (0, 0), shifting the position by the
// original first point. An empty sequence collapses to a single point at the position.
func (l *Line) SetPoints(pts geo.Points) *Line {
	if len(pts) == 0 {
		l.points = geo.Points{geo.NewPoint(0, 0)}
		return l
	}
	first := pts[0].Copy()
	rel := make(geo.Points, 0, len(pts))
	for _, p := range pts {
		rel = append(rel, p.Sub(first))
	}
	l.points = rel
	l.pos.Translate(first.X, first.Y)
	return l
}

func (l *Line) SetArrowheads(start, end Arrowhead) *Line {
	l.StartArrowhead = start
	l.EndArrowhead = end
	return l
}

func (l *Line) SetStartBinding(s Shape, gap float64) *Line {
	l.StartBinding = &Binding{
		ElementID: s.GetID(),
		Gap:       gap,
	}
	s.addBoundElement(BoundElement{ID: l.id, Kind: l.kind})
	return l
}

func (l *Line) SetEndBinding(s Shape, gap float64) *Line {
	l.EndBinding = &Binding{
		ElementID: s.GetID(),
		Gap:       gap,
	}
	s.addBoundElement(BoundElement{ID: l.id, Kind: l.kind})
	return l
}

func (l *Line) SetStyle(style Style) *Line {
	l.Style = style
	return l
}
