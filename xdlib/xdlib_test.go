package xdlib_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/lib/go2"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdcompare"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdpositioned"
	"oss.terrastruct.com/xdsketch/xdlib"
	"oss.terrastruct.com/xdsketch/xdtarget"
)

func opts(seed int64) *xdlib.CompileOptions {
	return &xdlib.CompileOptions{
		Seed:  go2.Pointer(seed),
		Ruler: textmeasure.Fixed{RuneWidth: 5, LineHeight: 10},
	}
}

func tree(t *testing.T, name, leaf string) *xdgraph.Graph {
	g := xdgraph.New(name)
	g.AddNode("cfg", []string{"cfg.seed = 1"}, nil)
	g.AddNode("cfg.model", []string{leaf}, nil)
	if err := g.AddEdge("cfg", "cfg.model"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCompile(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	g := xdgraph.New("single")
	g.AddNode("r", []string{"hello"}, nil)

	d, err := xdlib.Compile(ctx, g, opts(1))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "single", d.Name)
	if !assert.Len(t, d.Elements, 2) {
		return
	}
	assert.Equal(t, xdtarget.ShapeRectangle, d.Elements[0].Type)
	assert.Equal(t, xdtarget.ShapeText, d.Elements[1].Type)
	assert.Equal(t, "hello", d.Elements[1].Text)
	tl, br := d.BoundingBox()
	assert.Equal(t, xdtarget.Point{0, 0}, tl)
	assert.Equal(t, xdtarget.Point{70, 40}, br)
	if assert.Len(t, d.Groups, 1) {
		assert.Equal(t, []string{d.Elements[0].ID, d.Elements[1].ID}, d.Groups[0].ElementIDs)
	}
}

func TestCompileDeterministic(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	render := func(seed int64) []byte {
		d, err := xdlib.Compile(ctx, tree(t, "cfg", "cfg.model.type = \"resnet\""), opts(seed))
		if err != nil {
			t.Fatal(err)
		}
		b, err := xdlib.Render(d)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}

	first := render(7)
	assert.Equal(t, string(first), string(render(7)))
	assert.NotEqual(t, string(first), string(render(8)))

	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(first, &doc))
	assert.Equal(t, "excalidraw", doc["type"])
}

func TestCompileComparison(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	versions := []xdcompare.Version{
		{Name: "a", Graph: tree(t, "a", "x")},
		{Name: "b", Graph: tree(t, "b", "y")},
	}
	d, err := xdlib.CompileComparison(ctx, versions, "a", opts(1))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "a", d.Name)

	var dashed, arrows int
	for _, el := range d.Elements {
		if el.StrokeStyle == "dashed" {
			dashed++
		}
		if el.Type == xdtarget.ShapeArrow {
			arrows++
			assert.NotNil(t, el.StartBinding)
			assert.NotNil(t, el.EndBinding)
		}
	}
	assert.Equal(t, 2, dashed)
	assert.Equal(t, 1, arrows)

	_, err = xdlib.CompileComparison(ctx, versions, "missing", opts(1))
	if assert.Error(t, err) {
		assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
		assert.Contains(t, err.Error(), `failed to compile comparison "missing"`)
	}
}

func TestCompilePositioned(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	g := xdgraph.New("positioned")
	g.AddNode("a", nil, geo.NewPoint(0, 0))
	g.AddNode("b", nil, geo.NewPoint(1, 0))
	assert.NoError(t, g.AddEdge("a", "b"))
	assert.NoError(t, g.AddEdge("b", "a"))

	o := opts(1)
	o.Positioned = &xdpositioned.Opts{Scale: 100, Directed: true}
	d, err := xdlib.CompilePositioned(ctx, g, o)
	if !assert.NoError(t, err) {
		return
	}
	if !assert.Len(t, d.Elements, 6) {
		return
	}
	for _, el := range d.Elements[:2] {
		assert.Equal(t, xdtarget.ShapeArrow, el.Type)
		if assert.NotNil(t, el.EndArrowhead) {
			assert.Equal(t, "arrow", *el.EndArrowhead)
		}
	}
	assert.Equal(t, xdtarget.ShapeEllipse, d.Elements[2].Type)

	g.AddNode("c", []string{"loose"}, nil)
	_, err = xdlib.CompilePositioned(ctx, g, o)
	if assert.Error(t, err) {
		assert.True(t, errors.Is(err, xdgraph.ErrInvalidGraph))
	}
}
