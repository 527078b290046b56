package geo

import (
	"fmt"
	"math"
	"strings"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x, y float64) *Point {
	return &Point{X: x, Y: y}
}

func (p1 *Point) Equals(p2 *Point) bool {
	if p1 == nil {
		return p2 == nil
	} else if p2 == nil {
		return false
	}
	return (p1.X == p2.X) && (p1.Y == p2.Y)
}

// ApproxEquals tells whether both coordinates differ by less than e.
func (p1 *Point) ApproxEquals(p2 *Point, e float64) bool {
	if p1 == nil || p2 == nil {
		return p1 == p2
	}
	return ApproxEqual(p1.X, p2.X, e) && ApproxEqual(p1.Y, p2.Y, e)
}

func (p *Point) Copy() *Point {
	return &Point{X: p.X, Y: p.Y}
}

func (p *Point) Translate(dx, dy float64) {
	p.X += dx
	p.Y += dy
}

// Sub returns the offset from p2 to p1.
func (p1 *Point) Sub(p2 *Point) *Point {
	return NewPoint(p1.X-p2.X, p1.Y-p2.Y)
}

func (p1 *Point) Add(p2 *Point) *Point {
	return NewPoint(p1.X+p2.X, p1.Y+p2.Y)
}

// AngleTo is the angle of the ray from p1 through p2, measured from the positive x-axis.
// Y grows downward, so positive angles point below p1.
func (p1 *Point) AngleTo(p2 *Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
}

func (p *Point) ToString() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

type Points []*Point

func (ps Points) Equals(other Points) bool {
	if ps == nil {
		return other == nil
	} else if other == nil {
		return false
	}
	if len(ps) != len(other) {
		return false
	}
	for i := range ps {
		if !ps[i].Equals(other[i]) {
			return false
		}
	}
	return true
}

// Bounds returns the smallest box enclosing every point.
func (ps Points) Bounds() *Box {
	if len(ps) == 0 {
		return nil
	}
	minX, minY := ps[0].X, ps[0].Y
	maxX, maxY := ps[0].X, ps[0].Y
	for _, p := range ps[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return NewBox(NewPoint(minX, minY), maxX-minX, maxY-minY)
}

func (ps Points) Copy() Points {
	out := make(Points, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Copy())
	}
	return out
}

func (points Points) ToString() string {
	strs := make([]string, 0, len(points))
	for _, p := range points {
		strs = append(strs, p.ToString())
	}
	return strings.Join(strs, ", ")
}
