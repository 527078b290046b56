// Package xdcompare lays out several versions of the same tree next to each other and
// highlights what changed relative to a base version.
//
// The base is drawn in full. Each other version is laid out on its own, and a node is only
// drawn when it differs from the base node of the same id or has no counterpart there.
// Changed nodes take the base node's color and get an arrow from the base node.
package xdcompare

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdsketch/lib/color"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
	"oss.terrastruct.com/xdsketch/xdconnect"
	"oss.terrastruct.com/xdsketch/xdgraph"
	"oss.terrastruct.com/xdsketch/xdlayouts/xdstack"
	"oss.terrastruct.com/xdsketch/xdshape"
)

const TITLE_FONT_SIZE = 24

type Suppression string

const (
	// SuppressAny draws a shape when any node group enclosing it is drawn.
	SuppressAny Suppression = "any"
	// SuppressOwner draws a shape only when the innermost node owning it is drawn, so an
	// unchanged node never appears even under a changed ancestor.
	SuppressOwner Suppression = "owner"
)

type Version struct {
	Name  string
	Graph *xdgraph.Graph
}

type Opts struct {
	Stacking    xdstack.Stacking
	Padding     float64
	ColorPolicy xdstack.ColorPolicy
	// Suppression defaults to SuppressAny.
	Suppression Suppression
	Rand        *rand.Rand
}

type VersionLayout struct {
	Name  string
	Stack *xdstack.Result
	// Box is the dashed box around the version and Title its label.
	Box   *xdshape.Box
	Title *xdshape.Text
	// Rendered tells, per node id, whether the node is drawn. Every node of the base is.
	Rendered map[string]bool
	// Arrows point from base nodes to their changed counterparts.
	Arrows []*xdshape.Line
	// Shapes are the drawn shapes of this version, decorations excluded.
	Shapes []xdshape.Shape
}

type Result struct {
	// Versions starts with the base, followed by the others in input order.
	Versions []*VersionLayout
	// Shapes is the whole drawing back to front: decorations, then the base, then every
	// other version followed by its arrows.
	Shapes []xdshape.Shape
}

func (r *Result) Version(name string) *VersionLayout {
	for _, v := range r.Versions {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Layout lays out every version. base must name one of them.
func Layout(ctx context.Context, sk *xdshape.Sketch, versions []Version, base string, opts *Opts) (*Result, error) {
	if opts == nil {
		opts = &Opts{}
	}
	suppression := opts.Suppression
	switch suppression {
	case "":
		suppression = SuppressAny
	case SuppressAny, SuppressOwner:
	default:
		return nil, fmt.Errorf("unknown suppression %q: expected %q or %q", suppression, SuppressAny, SuppressOwner)
	}

	var baseVersion *Version
	seen := make(map[string]struct{}, len(versions))
	for i, v := range versions {
		if _, ok := seen[v.Name]; ok {
			return nil, fmt.Errorf("duplicate version %q", v.Name)
		}
		seen[v.Name] = struct{}{}
		if v.Name == base {
			baseVersion = &versions[i]
		}
	}
	if baseVersion == nil {
		return nil, fmt.Errorf("%w: base version %q not found", xdgraph.ErrInvalidGraph, base)
	}

	stacking := opts.Stacking
	if stacking == "" {
		stacking = xdstack.Horizontal
	}
	padding := opts.Padding
	if padding == 0 {
		padding = xdstack.DEFAULT_PADDING
	}
	stackOpts := &xdstack.Opts{
		Stacking:    stacking,
		Padding:     padding,
		ColorPolicy: opts.ColorPolicy,
		Rand:        opts.Rand,
	}

	baseStack, err := xdstack.Layout(ctx, sk, baseVersion.Graph, stackOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out %q: %w", base, err)
	}

	baseLayout := &VersionLayout{
		Name:     base,
		Stack:    baseStack,
		Rendered: make(map[string]bool, len(baseStack.Order)),
		Shapes:   baseStack.Shapes(),
	}
	for _, id := range baseStack.Order {
		baseLayout.Rendered[id] = true
	}
	if err := decorate(sk, baseLayout, stacking, padding); err != nil {
		return nil, err
	}

	res := &Result{
		Versions: []*VersionLayout{baseLayout},
	}
	decorations := []xdshape.Shape{baseLayout.Title, baseLayout.Box}
	body := append([]xdshape.Shape(nil), baseLayout.Shapes...)

	prev := baseLayout
	for _, v := range versions {
		if v.Name == base {
			continue
		}
		vl, err := compare(ctx, sk, baseVersion.Graph, baseStack, v, stackOpts, suppression)
		if err != nil {
			return nil, err
		}

		prevBox := prev.Box.GetBox()
		switch stacking {
		case xdstack.Vertical:
			vl.Stack.Root.MoveTo(prevBox.Right()+2*padding, 0)
		default:
			vl.Stack.Root.MoveTo(0, prevBox.Bottom()+2*padding)
		}
		if err := connect(sk, baseStack, vl, padding); err != nil {
			return nil, err
		}
		if err := decorate(sk, vl, stacking, padding); err != nil {
			return nil, err
		}

		res.Versions = append(res.Versions, vl)
		decorations = append(decorations, vl.Title, vl.Box)
		body = append(body, vl.Shapes...)
		for _, a := range vl.Arrows {
			body = append(body, a)
		}
		log.Debug(ctx, "compared version",
			slog.F("name", v.Name),
			slog.F("drawn", len(vl.Shapes)),
			slog.F("arrows", len(vl.Arrows)),
		)
		prev = vl
	}

	for i := len(decorations) - 1; i >= 0; i-- {
		res.Shapes = append(res.Shapes, decorations[i])
	}
	res.Shapes = append(res.Shapes, body...)
	return res, nil
}

// compare lays out v and decides which of its nodes are drawn.
func compare(ctx context.Context, sk *xdshape.Sketch, baseGraph *xdgraph.Graph, baseStack *xdstack.Result, v Version, opts *xdstack.Opts, suppression Suppression) (*VersionLayout, error) {
	stack, err := xdstack.Layout(ctx, sk, v.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out %q: %w", v.Name, err)
	}
	vl := &VersionLayout{
		Name:     v.Name,
		Stack:    stack,
		Rendered: make(map[string]bool, len(stack.Order)),
	}

	for _, n := range v.Graph.Nodes() {
		nl, ok := stack.Nodes[n.ID]
		if !ok {
			continue
		}
		baseNode := baseGraph.Node(n.ID)
		if baseNode == nil {
			vl.Rendered[n.ID] = true
			continue
		}
		unchanged := xdgraph.ContentEqual(n, baseNode) && xdgraph.SuccessorsEqual(n, baseNode)
		vl.Rendered[n.ID] = !unchanged
		if unchanged {
			continue
		}
		if baseNL, ok := baseStack.Nodes[n.ID]; ok {
			nl.Frame.Style.BackgroundColor = baseNL.Frame.Style.BackgroundColor
		}
	}

	nodeOfGroup := make(map[string]string, len(stack.Nodes))
	for id, nl := range stack.Nodes {
		nodeOfGroup[nl.Group.GetID()] = id
	}
	for _, s := range stack.Shapes() {
		if drawn(s, nodeOfGroup, vl.Rendered, suppression) {
			vl.Shapes = append(vl.Shapes, s)
		}
	}
	return vl, nil
}

func drawn(s xdshape.Shape, nodeOfGroup map[string]string, rendered map[string]bool, suppression Suppression) bool {
	for _, gid := range s.GetGroupIDs() {
		id, ok := nodeOfGroup[gid]
		if !ok {
			continue
		}
		if rendered[id] {
			return true
		}
		if suppression == SuppressOwner {
			return false
		}
	}
	return false
}

// connect draws an arrow from every base frame to the frame of its drawn counterpart in vl.
func connect(sk *xdshape.Sketch, baseStack *xdstack.Result, vl *VersionLayout, padding float64) error {
	for _, id := range vl.Stack.Order {
		if !vl.Rendered[id] {
			continue
		}
		baseNL, ok := baseStack.Nodes[id]
		if !ok {
			continue
		}
		arrow, err := xdconnect.Connect(sk, baseNL.Frame, vl.Stack.Nodes[id].Frame, xdshape.ArrowArrowhead, xdshape.ArrowArrowhead, padding)
		if err != nil {
			return err
		}
		vl.Arrows = append(vl.Arrows, arrow)
	}
	return nil
}

// decorate draws a dashed box around the version and its name beside it: rotated on the
// left for horizontal stacking, centered above for vertical stacking.
func decorate(sk *xdshape.Sketch, vl *VersionLayout, stacking xdstack.Stacking, padding float64) error {
	box, err := vl.Stack.Root.Bounds()
	if err != nil {
		return err
	}
	box = box.Pad(padding)
	outline := sk.NewRectangle(box.TopLeft.X, box.TopLeft.Y, box.Width, box.Height)
	style := xdshape.SolidStyle(color.Transparent)
	style.StrokeStyle = xdshape.StrokeDashed
	outline.SetStyle(style)

	title := sk.NewText(vl.Name, textmeasure.HandDrawn.Font(TITLE_FONT_SIZE))
	ob := outline.GetBox()
	tb := title.GetBox()
	switch stacking {
	case xdstack.Vertical:
		title.MoveTo(ob.TopLeft.X+ob.Width/2-tb.Width/2, ob.TopLeft.Y-tb.Height-padding)
	default:
		title.MoveTo(ob.TopLeft.X-2*tb.Height-padding, ob.TopLeft.Y+ob.Height/2)
		title.SetAngle(-math.Pi / 2)
	}

	vl.Box = outline
	vl.Title = title
	return nil
}
