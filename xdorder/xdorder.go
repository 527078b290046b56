// Package xdorder positions elements relative to each other.
//
// Placement only touches the axis it is about: PlaceBelow changes y and leaves x alone.
// Sequences are chained pairwise, so elements of different sizes should be aligned first.
package xdorder

import (
	"fmt"

	"oss.terrastruct.com/xdsketch/lib/go2"
	"oss.terrastruct.com/xdsketch/xdshape"
)

type Relation string

const (
	Below Relation = "below"
	Above Relation = "above"
	Left  Relation = "left"
	Right Relation = "right"
)

type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// PlaceBelow puts the top of b padding under the bottom of a.
func PlaceBelow(a, b xdshape.Element, padding float64) error {
	return Place(a, b, Below, padding)
}

// PlaceAbove puts the bottom of b padding over the top of a.
func PlaceAbove(a, b xdshape.Element, padding float64) error {
	return Place(a, b, Above, padding)
}

// PlaceLeft puts the right edge of b padding left of a.
func PlaceLeft(a, b xdshape.Element, padding float64) error {
	return Place(a, b, Left, padding)
}

// PlaceRight puts the left edge of b padding right of a.
func PlaceRight(a, b xdshape.Element, padding float64) error {
	return Place(a, b, Right, padding)
}

// Place moves b next to a.
func Place(a, b xdshape.Element, rel Relation, padding float64) error {
	boxA, err := xdshape.Bounds(a)
	if err != nil {
		return err
	}
	boxB, err := xdshape.Bounds(b)
	if err != nil {
		return err
	}
	switch rel {
	case Below:
		b.Translate(0, boxA.Bottom()+padding-boxB.Top())
	case Above:
		b.Translate(0, boxA.Top()-boxB.Height-padding-boxB.Top())
	case Left:
		b.Translate(boxA.Left()-boxB.Width-padding-boxB.Left(), 0)
	case Right:
		b.Translate(boxA.Right()+padding-boxB.Left(), 0)
	default:
		return fmt.Errorf("unknown relation %q", rel)
	}
	return nil
}

// Sequence places every element relative to the one before it.
func Sequence(els []xdshape.Element, rel Relation, padding float64) error {
	for i := 0; i+1 < len(els); i++ {
		if err := Place(els[i], els[i+1], rel, padding); err != nil {
			return fmt.Errorf("failed to place element %d %s element %d: %w", i+1, rel, i, err)
		}
	}
	return nil
}

// Align moves every element so that the given edge sits at the mean of that edge across
// els.
func Align(els []xdshape.Element, edge Edge) error {
	if len(els) == 0 {
		return nil
	}
	vals := make([]float64, 0, len(els))
	for _, el := range els {
		box, err := xdshape.Bounds(el)
		if err != nil {
			return err
		}
		v, err := edgeOf(box.Left(), box.Top(), box.Right(), box.Bottom(), edge)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}
	mean := go2.Mean(vals)
	for i, el := range els {
		delta := mean - vals[i]
		switch edge {
		case EdgeLeft, EdgeRight:
			el.Translate(delta, 0)
		case EdgeTop, EdgeBottom:
			el.Translate(0, delta)
		}
	}
	return nil
}

func edgeOf(left, top, right, bottom float64, edge Edge) (float64, error) {
	switch edge {
	case EdgeLeft:
		return left, nil
	case EdgeRight:
		return right, nil
	case EdgeTop:
		return top, nil
	case EdgeBottom:
		return bottom, nil
	}
	return 0, fmt.Errorf("unknown edge %q", edge)
}
