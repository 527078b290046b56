package xdexporter

import (
	"context"
	"fmt"

	"cdr.dev/slog"

	"oss.terrastruct.com/xdsketch/lib/go2"
	"oss.terrastruct.com/xdsketch/lib/log"
	"oss.terrastruct.com/xdsketch/xdshape"
	"oss.terrastruct.com/xdsketch/xdtarget"
)

// Export flattens shapes into a diagram, keeping their order. Every live group that an
// exported element belongs to gets a record listing its exported members.
func Export(ctx context.Context, sk *xdshape.Sketch, name string, shapes []xdshape.Shape) (*xdtarget.Diagram, error) {
	diagram := xdtarget.NewDiagram()
	diagram.Name = name

	exported := make(map[string]struct{}, len(shapes))
	var groupIDs []string
	seenGroups := make(map[string]struct{})
	for _, s := range shapes {
		if _, ok := exported[s.GetID()]; ok {
			return nil, fmt.Errorf("%s %q exported twice", s.GetKind(), s.GetID())
		}
		exported[s.GetID()] = struct{}{}

		el, err := toElement(s)
		if err != nil {
			return nil, err
		}
		diagram.Elements = append(diagram.Elements, el)

		for _, gid := range s.GetGroupIDs() {
			if _, ok := seenGroups[gid]; ok {
				continue
			}
			seenGroups[gid] = struct{}{}
			groupIDs = append(groupIDs, gid)
		}
	}

	for _, gid := range groupIDs {
		g := sk.Group(gid)
		if g == nil || !g.Used() {
			log.Warn(ctx, "element references a missing group", slog.F("group", gid))
			continue
		}
		rec := xdtarget.Group{
			ID:         gid,
			ElementIDs: []string{},
		}
		for _, id := range g.MemberIDs() {
			if _, ok := exported[id]; ok {
				rec.ElementIDs = append(rec.ElementIDs, id)
			}
		}
		diagram.Groups = append(diagram.Groups, rec)
	}
	return diagram, nil
}

func toElement(s xdshape.Shape) (xdtarget.Element, error) {
	style := s.GetStyle()
	el := xdtarget.Element{
		ID:              s.GetID(),
		Type:            string(s.GetKind()),
		Angle:           s.GetAngle(),
		Seed:            s.GetSeed(),
		StrokeColor:     style.StrokeColor,
		BackgroundColor: style.BackgroundColor,
		FillStyle:       style.FillStyle,
		StrokeStyle:     style.StrokeStyle,
		StrokeWidth:     style.StrokeWidth,
		Roughness:       style.Roughness,
		Opacity:         style.Opacity,
		GroupIDs:        s.GetGroupIDs(),
		BoundElements:   []xdtarget.BoundElement{},
	}
	if el.GroupIDs == nil {
		el.GroupIDs = []string{}
	}
	if style.Roundness != nil {
		el.Roundness = &xdtarget.Roundness{Type: style.Roundness.Type}
	}
	for _, be := range s.GetBoundElements() {
		el.BoundElements = append(el.BoundElements, xdtarget.BoundElement{
			ID:   be.ID,
			Type: string(be.Kind),
		})
	}

	switch s := s.(type) {
	case *xdshape.Box:
		box := s.GetBox()
		applyBox(&el, box.TopLeft.X, box.TopLeft.Y, box.Width, box.Height)
	case *xdshape.Text:
		box := s.GetBox()
		applyBox(&el, box.TopLeft.X, box.TopLeft.Y, box.Width, box.Height)
		el.Text = s.Text()
		el.FontSize = s.Font().Size
		el.FontFamily = int(s.Font().Family)
		el.TextAlign = s.TextAlign
		el.VerticalAlign = s.VerticalAlign
	case *xdshape.Line:
		pos := s.Position()
		w, h := s.Size()
		applyBox(&el, pos.X, pos.Y, w, h)
		for _, p := range s.Points() {
			el.Points = append(el.Points, xdtarget.Point{p.X, p.Y})
		}
		el.StartBinding = toBinding(s.StartBinding)
		el.EndBinding = toBinding(s.EndBinding)
		el.StartArrowhead = toArrowhead(s.StartArrowhead)
		el.EndArrowhead = toArrowhead(s.EndArrowhead)
	default:
		return xdtarget.Element{}, fmt.Errorf("cannot export %T: %w", s, xdshape.ErrUnknownShapeKind)
	}
	return el, nil
}

func applyBox(el *xdtarget.Element, x, y, w, h float64) {
	el.X = x
	el.Y = y
	el.Width = w
	el.Height = h
}

func toBinding(b *xdshape.Binding) *xdtarget.Binding {
	if b == nil {
		return nil
	}
	return &xdtarget.Binding{
		ElementID: b.ElementID,
		Focus:     b.Focus,
		Gap:       b.Gap,
	}
}

func toArrowhead(a xdshape.Arrowhead) *string {
	if a == xdshape.NoArrowhead {
		return nil
	}
	return go2.Pointer(string(a))
}
