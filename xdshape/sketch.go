package xdshape

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
)

const MAX_SEED = 100000

type Opts struct {
	// Ruler measures text elements. Defaults to textmeasure.NewRuler.
	Ruler textmeasure.Measurer
	// Rand draws element seeds. Defaults to a time-seeded source.
	Rand *rand.Rand
	// NewID generates element ids. Defaults to random UUIDs.
	NewID func() string
}

// Sketch owns every element created for one drawing. It is not safe for concurrent use.
type Sketch struct {
	ruler textmeasure.Measurer
	rand  *rand.Rand
	newID func() string

	elements map[string]Element
	order    []string
}

func New(opts *Opts) (*Sketch, error) {
	if opts == nil {
		opts = &Opts{}
	}
	sk := &Sketch{
		ruler:    opts.Ruler,
		rand:     opts.Rand,
		newID:    opts.NewID,
		elements: make(map[string]Element),
	}
	if sk.ruler == nil {
		ruler, err := textmeasure.NewRuler()
		if err != nil {
			return nil, err
		}
		sk.ruler = ruler
	}
	if sk.rand == nil {
		sk.rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if sk.newID == nil {
		sk.newID = uuid.NewString
	}
	return sk, nil
}

// Rand is the source shared by everything drawing into this sketch.
func (sk *Sketch) Rand() *rand.Rand {
	return sk.rand
}

func (sk *Sketch) Ruler() textmeasure.Measurer {
	return sk.ruler
}

func (sk *Sketch) Get(id string) Element {
	return sk.elements[id]
}

func (sk *Sketch) Shape(id string) Shape {
	s, _ := sk.elements[id].(Shape)
	return s
}

func (sk *Sketch) Group(id string) *Group {
	g, _ := sk.elements[id].(*Group)
	return g
}

// Shapes returns every shape in creation order.
func (sk *Sketch) Shapes() []Shape {
	var shapes []Shape
	for _, id := range sk.order {
		if s, ok := sk.elements[id].(Shape); ok {
			shapes = append(shapes, s)
		}
	}
	return shapes
}

// Groups returns every group in creation order, dissolved ones included.
func (sk *Sketch) Groups() []*Group {
	var groups []*Group
	for _, id := range sk.order {
		if g, ok := sk.elements[id].(*Group); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

func (sk *Sketch) register(e Element) {
	sk.elements[e.GetID()] = e
	sk.order = append(sk.order, e.GetID())
}

func (sk *Sketch) newBase(kind Kind) base {
	return base{
		id:    sk.newID(),
		kind:  kind,
		seed:  sk.rand.Intn(MAX_SEED),
		Style: DefaultStyle(),
	}
}

// New creates an element of the given kind with default attributes.
func (sk *Sketch) New(kind Kind) (Element, error) {
	switch kind {
	case KindRectangle, KindDiamond, KindEllipse:
		return sk.newBox(kind, 0, 0, 0, 0), nil
	case KindText:
		return sk.NewText("", DEFAULT_FONT_FAMILY.Font(DEFAULT_FONT_SIZE)), nil
	case KindLine:
		return sk.NewLine(0, 0, nil), nil
	case KindArrow:
		return sk.NewArrow(0, 0, nil), nil
	case KindGroup:
		return sk.NewGroup()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShapeKind, kind)
}

func (sk *Sketch) newBox(kind Kind, x, y, width, height float64) *Box {
	b := &Box{
		base: sk.newBase(kind),
		pos:  geo.NewPoint(x, y),
	}
	b.SetSize(width, height)
	sk.register(b)
	return b
}

func (sk *Sketch) NewRectangle(x, y, width, height float64) *Box {
	return sk.newBox(KindRectangle, x, y, width, height)
}

func (sk *Sketch) NewDiamond(x, y, width, height float64) *Box {
	return sk.newBox(KindDiamond, x, y, width, height)
}

func (sk *Sketch) NewEllipse(x, y, width, height float64) *Box {
	return sk.newBox(KindEllipse, x, y, width, height)
}

// NewText creates a text element at the origin, sized by the sketch ruler.
func (sk *Sketch) NewText(s string, font textmeasure.Font) *Text {
	t := &Text{
		base:          sk.newBase(KindText),
		ruler:         sk.ruler,
		pos:           geo.NewPoint(0, 0),
		text:          s,
		font:          font,
		TextAlign:     TextAlignLeft,
		VerticalAlign: VerticalAlignTop,
	}
	t.Style.Roundness = nil
	t.measure()
	sk.register(t)
	return t
}

func (sk *Sketch) newLine(kind Kind, x, y float64, pts geo.Points) *Line {
	l := &Line{
		base: sk.newBase(kind),
		pos:  geo.NewPoint(x, y),
	}
	l.Style.Roundness = &Roundness{Type: 2}
	l.SetPoints(pts)
	sk.register(l)
	return l
}

// NewLine creates a line positioned at (x, y) with pts relative to that position.
func (sk *Sketch) NewLine(x, y float64, pts geo.Points) *Line {
	return sk.newLine(KindLine, x, y, pts)
}

// NewArrow is NewLine with an arrowhead at the end.
func (sk *Sketch) NewArrow(x, y float64, pts geo.Points) *Line {
	l := sk.newLine(KindArrow, x, y, pts)
	l.EndArrowhead = ArrowArrowhead
	return l
}

// NewGroup creates a group holding els. See Group.Add.
func (sk *Sketch) NewGroup(els ...Element) (*Group, error) {
	g := &Group{
		id:      sk.newID(),
		sketch:  sk,
		members: make(map[string]struct{}),
	}
	shapes, err := g.flatten(els)
	if err != nil {
		return nil, err
	}
	sk.register(g)
	g.add(shapes)
	return g, nil
}

// SeededIDs generates UUIDs from a deterministic source so that identical inputs
// produce identical documents.
func SeededIDs(seed int64) func() string {
	r := rand.New(rand.NewSource(seed))
	return func() string {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}
}
