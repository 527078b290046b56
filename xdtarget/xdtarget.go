// Package xdtarget is the flat, serializable form of a sketch: every drawable element with
// its full attribute set, in drawing order.
package xdtarget

import (
	"math"
)

const BG_COLOR = "#ffffff"

const (
	ShapeRectangle = "rectangle"
	ShapeDiamond   = "diamond"
	ShapeEllipse   = "ellipse"
	ShapeText      = "text"
	ShapeLine      = "line"
	ShapeArrow     = "arrow"
)

type Diagram struct {
	Name       string `json:"name"`
	Background string `json:"background"`

	Elements []Element `json:"elements"`
	Groups   []Group   `json:"groups"`
}

func NewDiagram() *Diagram {
	return &Diagram{
		Background: BG_COLOR,
		Elements:   []Element{},
		Groups:     []Group{},
	}
}

type Element struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
	// Height is derived for text and lines.
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
	Seed   int     `json:"seed"`

	StrokeColor     string     `json:"strokeColor"`
	BackgroundColor string     `json:"backgroundColor"`
	FillStyle       string     `json:"fillStyle"`
	StrokeStyle     string     `json:"strokeStyle"`
	StrokeWidth     float64    `json:"strokeWidth"`
	Roughness       int        `json:"roughness"`
	Opacity         int        `json:"opacity"`
	Roundness       *Roundness `json:"roundness"`

	GroupIDs      []string       `json:"groupIds"`
	BoundElements []BoundElement `json:"boundElements"`

	Text          string `json:"text,omitempty"`
	FontSize      int    `json:"fontSize,omitempty"`
	FontFamily    int    `json:"fontFamily,omitempty"`
	TextAlign     string `json:"textAlign,omitempty"`
	VerticalAlign string `json:"verticalAlign,omitempty"`

	Points         []Point  `json:"points,omitempty"`
	StartBinding   *Binding `json:"startBinding,omitempty"`
	EndBinding     *Binding `json:"endBinding,omitempty"`
	StartArrowhead *string  `json:"startArrowhead,omitempty"`
	EndArrowhead   *string  `json:"endArrowhead,omitempty"`
}

func (e Element) IsText() bool {
	return e.Type == ShapeText
}

func (e Element) IsLinear() bool {
	return e.Type == ShapeLine || e.Type == ShapeArrow
}

type Roundness struct {
	Type int `json:"type"`
}

type BoundElement struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type Binding struct {
	ElementID string  `json:"elementId"`
	Focus     float64 `json:"focus"`
	Gap       float64 `json:"gap"`
}

// Point marshals as a [x, y] pair.
type Point [2]float64

type Group struct {
	ID         string   `json:"id"`
	ElementIDs []string `json:"elementIds"`
}

// BoundingBox spans every element, rotation ignored.
func (diagram Diagram) BoundingBox() (topLeft, bottomRight Point) {
	if len(diagram.Elements) == 0 {
		return Point{0, 0}, Point{0, 0}
	}
	x1, y1 := math.Inf(1), math.Inf(1)
	x2, y2 := math.Inf(-1), math.Inf(-1)
	for _, e := range diagram.Elements {
		ex, ey := e.X, e.Y
		if e.IsLinear() {
			for _, p := range e.Points {
				x1 = math.Min(x1, ex+p[0])
				y1 = math.Min(y1, ey+p[1])
				x2 = math.Max(x2, ex+p[0])
				y2 = math.Max(y2, ey+p[1])
			}
			continue
		}
		x1 = math.Min(x1, ex)
		y1 = math.Min(y1, ey)
		x2 = math.Max(x2, ex+e.Width)
		y2 = math.Max(y2, ey+e.Height)
	}
	return Point{x1, y1}, Point{x2, y2}
}
