// Package xdshape is the primitive model of a sketch: boxes, text, lines, arrows and the
// groups that aggregate them.
//
// Every element is created through a Sketch, which owns it for the lifetime of a layout
// and resolves it by id. Groups reference members by id only, so dissolving a group never
// invalidates other holders of the same shapes.
package xdshape

import (
	"errors"
	"fmt"

	"oss.terrastruct.com/xdsketch/lib/geo"
)

var (
	ErrEmptyGroup       = errors.New("group has no members")
	ErrUnknownShapeKind = errors.New("unknown shape kind")
)

type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindDiamond   Kind = "diamond"
	KindEllipse   Kind = "ellipse"
	KindText      Kind = "text"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindGroup     Kind = "group"
)

var Kinds = []Kind{
	KindRectangle,
	KindDiamond,
	KindEllipse,
	KindText,
	KindLine,
	KindArrow,
	KindGroup,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShapeKind, s)
}

// IsBoxLike reports whether k shares the rectangle bounding-box geometry.
func (k Kind) IsBoxLike() bool {
	return k == KindRectangle || k == KindDiamond || k == KindEllipse
}

func (k Kind) IsLinear() bool {
	return k == KindLine || k == KindArrow
}

// Element is anything that occupies an axis-aligned box and can be moved.
type Element interface {
	GetID() string
	GetKind() Kind
	// GetBox returns a copy of the element's bounding box.
	// Empty groups have no geometry and return nil.
	GetBox() *geo.Box
	MoveTo(x, y float64)
	Translate(dx, dy float64)
}

// Shape is a drawable primitive. Shapes can belong to groups but never contain elements.
type Shape interface {
	Element

	GetSeed() int
	GetAngle() float64
	GetStyle() *Style
	GetGroupIDs() []string
	GetBoundElements() []BoundElement

	addGroupID(id string)
	removeGroupID(id string)
	addBoundElement(be BoundElement)
}

// Style is passed through to the serializer untouched.
type Style struct {
	StrokeColor     string
	BackgroundColor string
	FillStyle       string
	StrokeStyle     string
	StrokeWidth     float64
	Roughness       int
	Opacity         int
	Roundness       *Roundness
}

type Roundness struct {
	Type int
}

const (
	FillHachure = "hachure"
	FillSolid   = "solid"

	StrokeSolid  = "solid"
	StrokeDashed = "dashed"
	StrokeDotted = "dotted"
)

func DefaultStyle() Style {
	return Style{
		StrokeColor:     "#000000",
		BackgroundColor: "#ffffff",
		FillStyle:       FillHachure,
		StrokeStyle:     StrokeSolid,
		StrokeWidth:     1,
		Roughness:       1,
		Opacity:         100,
		Roundness:       &Roundness{Type: 3},
	}
}

// SolidStyle is a flat fill of backgroundColor with sharp corners.
func SolidStyle(backgroundColor string) Style {
	s := DefaultStyle()
	s.FillStyle = FillSolid
	s.BackgroundColor = backgroundColor
	s.Roundness = nil
	return s
}

// BoundElement is the back-reference a shape keeps to a connector bound to it.
type BoundElement struct {
	ID   string
	Kind Kind
}

type base struct {
	id    string
	kind  Kind
	seed  int
	angle float64
	Style Style

	groupIDs      []string
	boundElements []BoundElement
}

func (b *base) GetID() string {
	return b.id
}

func (b *base) GetKind() Kind {
	return b.kind
}

func (b *base) GetSeed() int {
	return b.seed
}

func (b *base) GetAngle() float64 {
	return b.angle
}

func (b *base) GetStyle() *Style {
	return &b.Style
}

func (b *base) GetGroupIDs() []string {
	return append([]string(nil), b.groupIDs...)
}

func (b *base) GetBoundElements() []BoundElement {
	return append([]BoundElement(nil), b.boundElements...)
}

func (b *base) addGroupID(id string) {
	for _, gid := range b.groupIDs {
		if gid == id {
			return
		}
	}
	b.groupIDs = append(b.groupIDs, id)
}

func (b *base) removeGroupID(id string) {
	for i, gid := range b.groupIDs {
		if gid == id {
			b.groupIDs = append(b.groupIDs[:i], b.groupIDs[i+1:]...)
			return
		}
	}
}

func (b *base) addBoundElement(be BoundElement) {
	b.boundElements = append(b.boundElements, be)
}

// Bounds is the checked form of GetBox: empty groups fail with ErrEmptyGroup.
func Bounds(e Element) (*geo.Box, error) {
	if g, ok := e.(*Group); ok {
		return g.Bounds()
	}
	return e.GetBox(), nil
}

func Center(e Element) (*geo.Point, error) {
	box, err := Bounds(e)
	if err != nil {
		return nil, err
	}
	return box.Center(), nil
}

// BoundaryPoint is where the ray from the center of e at angle theta leaves its bounding
// box. Diamonds and ellipses use their rectangular envelope too.
func BoundaryPoint(e Element, theta float64) (*geo.Point, error) {
	box, err := Bounds(e)
	if err != nil {
		return nil, err
	}
	return box.BoundaryPoint(theta), nil
}

// EdgeMidpoint snaps theta to the closest edge midpoint of e, padding outward.
func EdgeMidpoint(e Element, theta, padding float64) (*geo.Point, error) {
	box, err := Bounds(e)
	if err != nil {
		return nil, err
	}
	return box.EdgeMidpoint(theta, padding), nil
}
