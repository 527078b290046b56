package xdorder_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
	"oss.terrastruct.com/xdsketch/xdorder"
	"oss.terrastruct.com/xdsketch/xdshape"
)

func newSketch(t *testing.T) *xdshape.Sketch {
	sk, err := xdshape.New(&xdshape.Opts{
		Ruler: textmeasure.Fixed{RuneWidth: 5, LineHeight: 10},
		Rand:  rand.New(rand.NewSource(1)),
		NewID: xdshape.SeededIDs(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	return sk
}

func TestPlace(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		rel  xdorder.Relation
		exp  *geo.Point
	}{
		{"below", xdorder.Below, geo.NewPoint(100, 30)},
		{"above", xdorder.Above, geo.NewPoint(100, -15)},
		{"left", xdorder.Left, geo.NewPoint(-10, 100)},
		{"right", xdorder.Right, geo.NewPoint(25, 100)},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sk := newSketch(t)
			a := sk.NewRectangle(0, 0, 20, 25)
			b := sk.NewRectangle(100, 100, 5, 10)
			err := xdorder.Place(a, b, tc.rel, 5)
			assert.NoError(t, err)
			assert.True(t, tc.exp.Equals(b.GetBox().TopLeft), b.GetBox().ToString())
			assert.True(t, geo.NewPoint(0, 0).Equals(a.GetBox().TopLeft))
		})
	}
}

func TestPlaceHelpers(t *testing.T) {
	t.Parallel()

	sk := newSketch(t)
	a := sk.NewRectangle(0, 0, 10, 10)
	b := sk.NewRectangle(0, 0, 10, 10)

	assert.NoError(t, xdorder.PlaceBelow(a, b, 1))
	assert.Equal(t, 11., b.GetBox().Top())
	assert.NoError(t, xdorder.PlaceAbove(a, b, 1))
	assert.Equal(t, -11., b.GetBox().Top())
	assert.NoError(t, xdorder.PlaceRight(a, b, 1))
	assert.Equal(t, 11., b.GetBox().Left())
	assert.NoError(t, xdorder.PlaceLeft(a, b, 1))
	assert.Equal(t, -11., b.GetBox().Left())

	assert.Error(t, xdorder.Place(a, b, "diagonal", 1))
}

func TestPlaceGroup(t *testing.T) {
	t.Parallel()

	sk := newSketch(t)
	a := sk.NewRectangle(0, 0, 10, 10)
	m1 := sk.NewRectangle(50, 50, 10, 10)
	m2 := sk.NewRectangle(70, 60, 10, 10)
	g, err := sk.NewGroup(m1, m2)
	assert.NoError(t, err)

	assert.NoError(t, xdorder.PlaceBelow(a, g, 10))
	assert.True(t, geo.NewBox(geo.NewPoint(50, 20), 30, 20).Equals(g.GetBox()), g.GetBox().ToString())
	assert.True(t, geo.NewPoint(70, 30).Equals(m2.GetBox().TopLeft))

	empty, err := sk.NewGroup()
	assert.NoError(t, err)
	err = xdorder.PlaceBelow(a, empty, 10)
	assert.True(t, errors.Is(err, xdshape.ErrEmptyGroup))
}

func TestSequence(t *testing.T) {
	t.Parallel()

	sk := newSketch(t)
	els := []xdshape.Element{
		sk.NewRectangle(0, 0, 10, 10),
		sk.NewRectangle(0, 0, 20, 10),
		sk.NewRectangle(0, 0, 5, 10),
	}
	assert.NoError(t, xdorder.Sequence(els, xdorder.Right, 10))

	var lefts []float64
	for _, el := range els {
		lefts = append(lefts, el.GetBox().Left())
	}
	assert.Equal(t, []float64{0, 20, 50}, lefts)

	assert.NoError(t, xdorder.Sequence(nil, xdorder.Below, 10))
	assert.NoError(t, xdorder.Sequence(els[:1], xdorder.Below, 10))
}

func TestAlign(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		edge xdorder.Edge
		exp  []float64
		get  func(*geo.Box) float64
	}{
		{"left", xdorder.EdgeLeft, []float64{10, 10}, (*geo.Box).Left},
		{"right", xdorder.EdgeRight, []float64{25, 25}, (*geo.Box).Right},
		{"top", xdorder.EdgeTop, []float64{5, 5}, (*geo.Box).Top},
		{"bottom", xdorder.EdgeBottom, []float64{20, 20}, (*geo.Box).Bottom},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sk := newSketch(t)
			els := []xdshape.Element{
				sk.NewRectangle(0, 0, 10, 10),
				sk.NewRectangle(20, 10, 20, 20),
			}
			assert.NoError(t, xdorder.Align(els, tc.edge))
			var got []float64
			for _, el := range els {
				got = append(got, tc.get(el.GetBox()))
			}
			assert.Equal(t, tc.exp, got)
		})
	}
}
