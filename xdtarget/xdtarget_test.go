package xdtarget_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/xdsketch/xdtarget"
)

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		elements []xdtarget.Element
		tl, br   xdtarget.Point
	}{
		{
			name: "empty",
		},
		{
			name: "boxes",
			elements: []xdtarget.Element{
				{Type: xdtarget.ShapeRectangle, X: 10, Y: 10, Width: 20, Height: 20},
				{Type: xdtarget.ShapeText, X: -5, Y: 15, Width: 5, Height: 30},
			},
			tl: xdtarget.Point{-5, 10},
			br: xdtarget.Point{30, 45},
		},
		{
			name: "line",
			elements: []xdtarget.Element{
				{Type: xdtarget.ShapeRectangle, X: 0, Y: 0, Width: 10, Height: 10},
				{Type: xdtarget.ShapeArrow, X: 5, Y: 5, Width: 20, Height: 10, Points: []xdtarget.Point{{0, 0}, {-20, 10}}},
			},
			tl: xdtarget.Point{-15, 0},
			br: xdtarget.Point{10, 15},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := xdtarget.NewDiagram()
			d.Elements = append(d.Elements, tc.elements...)
			tl, br := d.BoundingBox()
			assert.Equal(t, tc.tl, tl)
			assert.Equal(t, tc.br, br)
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	arrow := "arrow"
	d := xdtarget.NewDiagram()
	d.Elements = append(d.Elements,
		xdtarget.Element{ID: "r", Type: xdtarget.ShapeRectangle, GroupIDs: []string{"g"}},
		xdtarget.Element{ID: "a", Type: xdtarget.ShapeArrow, Points: []xdtarget.Point{{0, 0}, {1, 2}}, EndArrowhead: &arrow},
	)
	b, err := json.Marshal(d)
	assert.NoError(t, err)

	var raw struct {
		Elements []map[string]interface{} `json:"elements"`
	}
	assert.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, []interface{}{"g"}, raw.Elements[0]["groupIds"])
	assert.NotContains(t, raw.Elements[0], "points")
	assert.Contains(t, raw.Elements[0], "roundness")
	assert.Equal(t, []interface{}{[]interface{}{0., 0.}, []interface{}{1., 2.}}, raw.Elements[1]["points"])
	assert.Equal(t, "arrow", raw.Elements[1]["endArrowhead"])
}
