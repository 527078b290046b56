// Package xdconnect draws arrows between shapes and binds both ends.
package xdconnect

import (
	"errors"
	"fmt"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/xdshape"
)

var ErrInvalidBinding = errors.New("invalid binding")

// Connect creates an arrow from a to b. The direction between the two centers picks an
// edge midpoint on each shape, padded outward by padding, and the arrow spans those two
// anchors. Both ends are bound with padding as the gap.
//
// Only boxes and text can be bound.
func Connect(sk *xdshape.Sketch, a, b xdshape.Shape, start, end xdshape.Arrowhead, padding float64) (*xdshape.Line, error) {
	for _, s := range []xdshape.Shape{a, b} {
		if !Bindable(s) {
			return nil, fmt.Errorf("%w: cannot bind %s %q", ErrInvalidBinding, s.GetKind(), s.GetID())
		}
	}

	boxA := a.GetBox()
	boxB := b.GetBox()
	c1 := boxA.Center()
	c2 := boxB.Center()
	theta := geo.NormalizeAngle(c1.AngleTo(c2))

	anchor1 := boxA.EdgeMidpoint(theta, padding)
	anchor2 := boxB.EdgeMidpoint(geo.ReciprocalAngle(theta), padding)

	arrow := sk.NewArrow(anchor1.X, anchor1.Y, geo.Points{
		geo.NewPoint(0, 0),
		anchor2.Sub(anchor1),
	})
	arrow.SetArrowheads(start, end)
	arrow.SetStartBinding(a, padding)
	arrow.SetEndBinding(b, padding)
	return arrow, nil
}

func Bindable(s xdshape.Shape) bool {
	return s.GetKind().IsBoxLike() || s.GetKind() == xdshape.KindText
}
