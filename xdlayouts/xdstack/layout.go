// Package xdstack lays out a rooted graph as nested stacked boxes. Every node becomes a
// solid frame enclosing its content lines and, below them, the frames of its successors.
package xdstack

import (
	"context"
	"fmt"
	"math/rand"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdsketch/lib/color"
	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdorder"
	"oss.terrastruct.com/xdsketch/xdshape"
)

const (
	DEFAULT_PADDING   = 10
	CONTENT_FONT_SIZE = 20
)

type Stacking string

const (
	Horizontal Stacking = "horizontal"
	Vertical   Stacking = "vertical"
)

func ParseStacking(s string) (Stacking, error) {
	switch Stacking(s) {
	case Horizontal, Vertical:
		return Stacking(s), nil
	}
	return "", fmt.Errorf("unknown stacking %q: expected %q or %q", s, Horizontal, Vertical)
}

// Relation is the placement that chains sibling subtrees along the stacking axis.
func (s Stacking) Relation() xdorder.Relation {
	if s == Vertical {
		return xdorder.Below
	}
	return xdorder.Right
}

type ColorPolicy string

const (
	// Companion derives each child color from its parent with color.Companion.
	Companion ColorPolicy = "companion"
	// Palette draws sibling colors from color.Palette, never reusing the parent color.
	Palette ColorPolicy = "palette"
)

func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch ColorPolicy(s) {
	case Companion, Palette:
		return ColorPolicy(s), nil
	}
	return "", fmt.Errorf("unknown color policy %q: expected %q or %q", s, Companion, Palette)
}

type Opts struct {
	// Stacking defaults to Horizontal.
	Stacking Stacking
	// Padding separates content lines, siblings and frames. Defaults to DEFAULT_PADDING.
	Padding float64
	// ColorPolicy defaults to Companion.
	ColorPolicy ColorPolicy
	// RootColor is the frame color of the root. Random when empty.
	RootColor string
	// Shift moves the top left corner of the result when set.
	Shift *geo.Point
	// Rand drives every color choice. Defaults to the sketch's source.
	Rand *rand.Rand
}

func (opts *Opts) withDefaults(sk *xdshape.Sketch) (*Opts, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Stacking == "" {
		o.Stacking = Horizontal
	}
	if _, err := ParseStacking(string(o.Stacking)); err != nil {
		return nil, err
	}
	if o.ColorPolicy == "" {
		o.ColorPolicy = Companion
	}
	if _, err := ParseColorPolicy(string(o.ColorPolicy)); err != nil {
		return nil, err
	}
	if o.Padding < 0 {
		return nil, fmt.Errorf("padding must not be negative: %v", o.Padding)
	}
	if o.Padding == 0 {
		o.Padding = DEFAULT_PADDING
	}
	if o.Rand == nil {
		o.Rand = sk.Rand()
	}
	return &o, nil
}

// NodeLayout is what a single graph node turned into.
type NodeLayout struct {
	// Group holds the frame and everything drawn inside it.
	Group *xdshape.Group
	// Frame is the solid box enclosing the node, always the first member of Group.
	Frame *xdshape.Box
}

type Result struct {
	Root *xdshape.Group
	// Nodes maps node ids to their layout. A node reachable through several parents is
	// drawn under each of them and mapped to its first occurrence in traversal order.
	Nodes map[string]*NodeLayout
	// Order lists node ids in traversal order, each once.
	Order []string
}

// Shapes returns everything drawn, back to front.
func (r *Result) Shapes() []xdshape.Shape {
	return r.Root.Members()
}

// Box is the frame of the root node.
func (r *Result) Box() *geo.Box {
	return r.Root.GetBox()
}

type layouter struct {
	sk   *xdshape.Sketch
	g    *xdgraph.Graph
	opts *Opts
	res  *Result
}

// Layout walks g depth first from its root:
// 1. content lines of a node are stacked into a text block
// 2. successors are laid out recursively, in edge order, and chained along the stacking axis
// 3. the text block goes above the successors
// 4. a padded solid frame is drawn around both, colored by the color policy
// Intermediate groups are dissolved, so every shape ends up in the node group of its own
// node and of each ancestor, innermost first.
func Layout(ctx context.Context, sk *xdshape.Sketch, g *xdgraph.Graph, opts *Opts) (*Result, error) {
	opts, err := opts.withDefaults(sk)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	root, _ := g.Root()

	rootColor := opts.RootColor
	if rootColor == "" {
		rootColor, err = randomColor(opts)
		if err != nil {
			return nil, err
		}
	}

	l := &layouter{
		sk:   sk,
		g:    g,
		opts: opts,
		res: &Result{
			Nodes: make(map[string]*NodeLayout),
		},
	}
	nl, err := l.layoutNode(ctx, root, rootColor)
	if err != nil {
		return nil, err
	}
	l.res.Root = nl.Group

	if opts.Shift != nil {
		l.res.Root.MoveTo(opts.Shift.X, opts.Shift.Y)
	}
	log.Debug(ctx, "stack layout done",
		slog.F("graph", g.Name),
		slog.F("nodes", len(l.res.Order)),
		slog.F("box", l.res.Box().ToString()),
	)
	return l.res, nil
}

func randomColor(opts *Opts) (string, error) {
	if opts.ColorPolicy == Palette {
		return color.FromPalette(opts.Rand, "")
	}
	return color.Random(opts.Rand), nil
}

func (l *layouter) childColors(parentColor string, n int) ([]string, error) {
	if l.opts.ColorPolicy == Palette {
		return color.SamplePalette(l.opts.Rand, n, parentColor)
	}
	colors := make([]string, 0, n)
	for i := 0; i < n; i++ {
		c, err := color.Companion(parentColor, l.opts.Rand)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// TextBlock creates one code text per line, stacked top to bottom.
func TextBlock(sk *xdshape.Sketch, lines []string, padding float64) (*xdshape.Group, error) {
	texts := make([]xdshape.Element, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, sk.NewText(line, textmeasure.Code.Font(CONTENT_FONT_SIZE)))
	}
	if err := xdorder.Sequence(texts, xdorder.Below, padding); err != nil {
		return nil, err
	}
	return sk.NewGroup(texts...)
}

// Frame wraps el in a solid box padded by padding on every side and groups them, box
// first. The group is then moved by padding on both axes.
func Frame(sk *xdshape.Sketch, kind xdshape.Kind, el xdshape.Element, backgroundColor string, padding float64) (*xdshape.Group, *xdshape.Box, error) {
	box, err := xdshape.Bounds(el)
	if err != nil {
		return nil, nil, err
	}
	var frame *xdshape.Box
	padded := box.Pad(padding)
	x, y, w, h := padded.TopLeft.X, padded.TopLeft.Y, padded.Width, padded.Height
	switch kind {
	case xdshape.KindRectangle:
		frame = sk.NewRectangle(x, y, w, h)
	case xdshape.KindEllipse:
		frame = sk.NewEllipse(x, y, w, h)
	case xdshape.KindDiamond:
		frame = sk.NewDiamond(x, y, w, h)
	default:
		return nil, nil, fmt.Errorf("cannot frame with %s: %w", kind, xdshape.ErrUnknownShapeKind)
	}
	frame.SetStyle(xdshape.SolidStyle(backgroundColor))

	g, err := sk.NewGroup(frame, el)
	if err != nil {
		return nil, nil, err
	}
	g.Translate(padding, padding)
	return g, frame, nil
}

func (l *layouter) layoutNode(ctx context.Context, n *xdgraph.Node, backgroundColor string) (*NodeLayout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	padding := l.opts.Padding

	var textGroup *xdshape.Group
	if len(n.Content) > 0 {
		var err error
		textGroup, err = TextBlock(l.sk, n.Content, padding)
		if err != nil {
			return nil, err
		}
	}

	var intermediate []*xdshape.Group
	if textGroup != nil {
		intermediate = append(intermediate, textGroup)
	}

	body := textGroup
	successors := n.Successors()
	if len(successors) > 0 {
		colors, err := l.childColors(backgroundColor, len(successors))
		if err != nil {
			return nil, err
		}
		children := make([]xdshape.Element, 0, len(successors))
		for i, id := range successors {
			child, err := l.layoutNode(ctx, l.g.Node(id), colors[i])
			if err != nil {
				return nil, err
			}
			children = append(children, child.Group)
		}
		if err := xdorder.Sequence(children, l.opts.Stacking.Relation(), padding); err != nil {
			return nil, err
		}
		childrenGroup, err := l.sk.NewGroup(children...)
		if err != nil {
			return nil, err
		}
		intermediate = append(intermediate, childrenGroup)

		body = childrenGroup
		if textGroup != nil {
			if err := xdorder.PlaceBelow(textGroup, childrenGroup, padding); err != nil {
				return nil, err
			}
			body, err = l.sk.NewGroup(textGroup, childrenGroup)
			if err != nil {
				return nil, err
			}
			intermediate = append(intermediate, body)
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: node %q has neither content nor successors", xdgraph.ErrInvalidGraph, n.ID)
	}

	g, frame, err := Frame(l.sk, xdshape.KindRectangle, body, backgroundColor, padding)
	if err != nil {
		return nil, err
	}
	for _, ig := range intermediate {
		ig.Dissolve()
	}

	nl := &NodeLayout{
		Group: g,
		Frame: frame,
	}
	if _, ok := l.res.Nodes[n.ID]; !ok {
		l.res.Nodes[n.ID] = nl
		l.res.Order = append(l.res.Order, n.ID)
	}
	log.Debug(ctx, "laid out node", slog.F("id", n.ID), slog.F("color", backgroundColor), slog.F("box", g.GetBox().ToString()))
	return nl, nil
}
