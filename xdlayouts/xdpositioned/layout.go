// Package xdpositioned draws a general graph at explicit node positions. Every node is an
// ellipse around its content and every edge an arrow between two ellipses. Cycles and
// several roots are fine here.
package xdpositioned

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdsketch/lib/color"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/xdconnect"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdstack"
	"oss.terrastruct.com/xdsketch/xdshape"
)

const DEFAULT_SCALE = 500

type Opts struct {
	// Scale multiplies positions. Defaults to DEFAULT_SCALE.
	Scale float64
	// Padding defaults to xdstack.DEFAULT_PADDING.
	Padding float64
	// Directed puts an arrowhead at the end of every edge.
	Directed bool
	Rand     *rand.Rand
}

type Result struct {
	Nodes map[string]*xdstack.NodeLayout
	// Arrows are keyed like xdgraph.Graph.Edges.
	Arrows map[[2]string]*xdshape.Line
	// Shapes is arrows first, then node shapes in node order.
	Shapes []xdshape.Shape
}

// Layout places node n with its top left corner at (n.Pos.X*scale, -n.Pos.Y*scale), so
// positions grow upwards like in a plot.
func Layout(ctx context.Context, sk *xdshape.Sketch, g *xdgraph.Graph, opts *Opts) (*Result, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Scale == 0 {
		o.Scale = DEFAULT_SCALE
	}
	if o.Padding < 0 {
		return nil, fmt.Errorf("padding must not be negative: %v", o.Padding)
	}
	if o.Padding == 0 {
		o.Padding = xdstack.DEFAULT_PADDING
	}
	if o.Rand == nil {
		o.Rand = sk.Rand()
	}

	res := &Result{
		Nodes:  make(map[string]*xdstack.NodeLayout, g.Len()),
		Arrows: make(map[[2]string]*xdshape.Line),
	}
	var nodeShapes []xdshape.Shape
	for _, n := range g.Nodes() {
		if n.Pos == nil {
			return nil, fmt.Errorf("%w: node %q has no position", xdgraph.ErrInvalidGraph, n.ID)
		}
		content := n.Content
		if len(content) == 0 {
			content = []string{n.ID}
		}
		text, err := xdstack.TextBlock(sk, content, o.Padding)
		if err != nil {
			return nil, err
		}
		group, frame, err := xdstack.Frame(sk, xdshape.KindEllipse, text, color.Random(o.Rand), o.Padding)
		if err != nil {
			return nil, err
		}
		text.Dissolve()
		group.MoveTo(math.Trunc(n.Pos.X*o.Scale), math.Trunc(-n.Pos.Y*o.Scale))

		res.Nodes[n.ID] = &xdstack.NodeLayout{
			Group: group,
			Frame: frame,
		}
		nodeShapes = append(nodeShapes, group.Members()...)
	}

	end := xdshape.NoArrowhead
	if o.Directed {
		end = xdshape.ArrowArrowhead
	}
	for _, e := range g.Edges() {
		arrow, err := xdconnect.Connect(sk, res.Nodes[e[0]].Frame, res.Nodes[e[1]].Frame, xdshape.NoArrowhead, end, o.Padding)
		if err != nil {
			return nil, err
		}
		res.Arrows[e] = arrow
		res.Shapes = append(res.Shapes, arrow)
	}
	res.Shapes = append(res.Shapes, nodeShapes...)

	log.Debug(ctx, "positioned layout done",
		slog.F("graph", g.Name),
		slog.F("nodes", g.Len()),
		slog.F("edges", len(res.Arrows)),
	)
	return res, nil
}
