package xdpositioned_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/xdsketch/lib/color"
	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdpositioned"
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

func twoNodes(t *testing.T, edges ...[2]string) *xdgraph.Graph {
	g := xdgraph.New("positioned")
	g.AddNode("a", []string{"a"}, geo.NewPoint(0, 0))
	g.AddNode("b", nil, geo.NewPoint(1, -0.5))
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestLayout(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		directed bool
		expEnd   xdshape.Arrowhead
	}{
		{"directed", true, xdshape.ArrowArrowhead},
		{"undirected", false, xdshape.NoArrowhead},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := log.WithTB(context.Background(), t, nil)
			g := twoNodes(t, [2]string{"a", "b"})
			res, err := xdpositioned.Layout(ctx, newSketch(t), g, &xdpositioned.Opts{
				Scale:    100,
				Directed: tc.directed,
			})
			if !assert.NoError(t, err) {
				return
			}

			a, b := res.Nodes["a"], res.Nodes["b"]
			assert.True(t, geo.NewBox(geo.NewPoint(0, 0), 30, 40).Equals(a.Frame.GetBox()), a.Frame.GetBox().ToString())
			assert.True(t, geo.NewBox(geo.NewPoint(100, 50), 30, 40).Equals(b.Frame.GetBox()), b.Frame.GetBox().ToString())
			assert.Equal(t, xdshape.KindEllipse, a.Frame.GetKind())
			assert.Equal(t, "b", b.Group.Members()[1].(*xdshape.Text).Text())

			for _, nl := range res.Nodes {
				contrast, err := color.ContrastWithBlack(nl.Frame.Style.BackgroundColor)
				assert.NoError(t, err)
				assert.GreaterOrEqual(t, contrast, color.MinContrast)
				assert.Len(t, liveGroupIDs(nl.Group), 1)
			}

			arrow := res.Arrows[[2]string{"a", "b"}]
			if !assert.NotNil(t, arrow) {
				return
			}
			assert.True(t, geo.NewPoint(40, 20).Equals(arrow.Position()), arrow.Position().ToString())
			assert.True(t, geo.Points{geo.NewPoint(0, 0), geo.NewPoint(50, 50)}.Equals(arrow.Points()), arrow.Points().ToString())
			assert.Equal(t, xdshape.NoArrowhead, arrow.StartArrowhead)
			assert.Equal(t, tc.expEnd, arrow.EndArrowhead)

			if assert.Len(t, res.Shapes, 5) {
				assert.Equal(t, xdshape.Shape(arrow), res.Shapes[0])
				assert.Equal(t, xdshape.Shape(a.Frame), res.Shapes[1])
				assert.Equal(t, xdshape.Shape(b.Frame), res.Shapes[3])
			}
		})
	}
}

func liveGroupIDs(g *xdshape.Group) []string {
	seen := make(map[string]struct{})
	for _, s := range g.Members() {
		for _, id := range s.GetGroupIDs() {
			seen[id] = struct{}{}
		}
	}
	var ids []string
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}

func TestCycle(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	g := twoNodes(t, [2]string{"a", "b"}, [2]string{"b", "a"})
	res, err := xdpositioned.Layout(ctx, newSketch(t), g, nil)
	assert.NoError(t, err)
	assert.Len(t, res.Arrows, 2)
	assert.True(t, geo.NewPoint(500, 250).Equals(res.Nodes["b"].Frame.GetBox().TopLeft))
}

func TestMissingPosition(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	g := twoNodes(t)
	g.AddNode("c", []string{"c"}, nil)
	_, err := xdpositioned.Layout(ctx, newSketch(t), g, nil)
	assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
}
