package xdshape

import (
	"fmt"

	"oss.terrastruct.com/xdsketch/lib/geo"
)

// Group is a flat, ordered set of shapes. Nested groups are expanded into their shapes
// on Add, and every member records the group id so the serializer can emit it.
//
// The bounding box is computed from the members on every call and is never cached.
type Group struct {
	id     string
	sketch *Sketch

	memberIDs []string
	members   map[string]struct{}
	dissolved bool
}

func (g *Group) GetID() string {
	return g.id
}

func (g *Group) GetKind() Kind {
	return KindGroup
}

func (g *Group) Len() int {
	return len(g.memberIDs)
}

func (g *Group) Has(s Shape) bool {
	_, ok := g.members[s.GetID()]
	return ok
}

func (g *Group) MemberIDs() []string {
	return append([]string(nil), g.memberIDs...)
}

// Members resolves the member ids against the owning sketch, in insertion order.
func (g *Group) Members() []Shape {
	shapes := make([]Shape, 0, len(g.memberIDs))
	for _, id := range g.memberIDs {
		if s := g.sketch.Shape(id); s != nil {
			shapes = append(shapes, s)
		}
	}
	return shapes
}

// Used reports whether the group has not been dissolved.
func (g *Group) Used() bool {
	return !g.dissolved
}

// Add appends shapes in order. Groups contribute their members, and shapes already in g
// are skipped. Adding to a dissolved group revives it.
//
// Nothing is added when any element is rejected.
func (g *Group) Add(els ...Element) error {
	shapes, err := g.flatten(els)
	if err != nil {
		return err
	}
	g.add(shapes)
	return nil
}

// flatten expands nested groups and checks that every shape is owned by g's sketch.
func (g *Group) flatten(els []Element) ([]Shape, error) {
	shapes := make([]Shape, 0, len(els))
	for _, el := range els {
		switch el := el.(type) {
		case *Group:
			if el == g {
				continue
			}
			members, err := g.flatten(shapesAsElements(el.Members()))
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, members...)
		case Shape:
			if g.sketch.Get(el.GetID()) != el {
				return nil, fmt.Errorf("cannot add %s %q: not owned by this sketch", el.GetKind(), el.GetID())
			}
			shapes = append(shapes, el)
		default:
			return nil, fmt.Errorf("cannot add element of type %T to group", el)
		}
	}
	return shapes, nil
}

func (g *Group) add(shapes []Shape) {
	for _, s := range shapes {
		if g.Has(s) {
			continue
		}
		g.memberIDs = append(g.memberIDs, s.GetID())
		g.members[s.GetID()] = struct{}{}
		s.addGroupID(g.id)
	}
	g.dissolved = false
}

// Remove drops s from g. Removing a shape that is not a member does nothing.
func (g *Group) Remove(s Shape) *Group {
	if !g.Has(s) {
		return g
	}
	delete(g.members, s.GetID())
	for i, id := range g.memberIDs {
		if id == s.GetID() {
			g.memberIDs = append(g.memberIDs[:i], g.memberIDs[i+1:]...)
			break
		}
	}
	s.removeGroupID(g.id)
	return g
}

// Dissolve removes every member and marks g unused. The shapes themselves are untouched
// apart from losing the group id.
func (g *Group) Dissolve() {
	for _, s := range g.Members() {
		s.removeGroupID(g.id)
	}
	g.memberIDs = nil
	g.members = make(map[string]struct{})
	g.dissolved = true
}

// Bounds is the union of the member boxes.
func (g *Group) Bounds() (*geo.Box, error) {
	var box *geo.Box
	for _, s := range g.Members() {
		box = box.Union(s.GetBox())
	}
	if box == nil {
		return nil, fmt.Errorf("group %q: %w", g.id, ErrEmptyGroup)
	}
	return box, nil
}

func (g *Group) GetBox() *geo.Box {
	box, err := g.Bounds()
	if err != nil {
		return nil
	}
	return box
}

func (g *Group) Translate(dx, dy float64) {
	for _, s := range g.Members() {
		s.Translate(dx, dy)
	}
}

// MoveTo places the top left corner of the bounding box at (x, y).
func (g *Group) MoveTo(x, y float64) {
	box, err := g.Bounds()
	if err != nil {
		return
	}
	g.Translate(x-box.TopLeft.X, y-box.TopLeft.Y)
}

func shapesAsElements(shapes []Shape) []Element {
	els := make([]Element, 0, len(shapes))
	for _, s := range shapes {
		els = append(els, s)
	}
	return els
}
