package xdshape

import (
	"oss.terrastruct.com/xdsketch/lib/geo"
	"oss.terrastruct.com/xdsketch/lib/textmeasure"
)

const (
	DEFAULT_FONT_SIZE   = 20
	DEFAULT_FONT_FAMILY = textmeasure.HandDrawn

	TextAlignLeft    = "left"
	VerticalAlignTop = "top"
)

// Text is a single text element. Its size always comes from the ruler: every mutator
// that can change the rendered extent measures again.
type Text struct {
	base

	ruler textmeasure.Measurer

	pos    *geo.Point
	width  float64
	height float64

	text string
	font textmeasure.Font

	TextAlign     string
	VerticalAlign string
}

func (t *Text) GetBox() *geo.Box {
	return geo.NewBox(t.pos.Copy(), t.width, t.height)
}

func (t *Text) MoveTo(x, y float64) {
	t.pos = geo.NewPoint(x, y)
}

func (t *Text) Translate(dx, dy float64) {
	t.pos.Translate(dx, dy)
}

func (t *Text) Text() string {
	return t.text
}

func (t *Text) Font() textmeasure.Font {
	return t.font
}

func (t *Text) SetText(s string) *Text {
	t.text = s
	t.measure()
	return t
}

func (t *Text) SetFontFamily(family textmeasure.FontFamily) *Text {
	t.font.Family = family
	t.measure()
	return t
}

func (t *Text) SetFontSize(size int) *Text {
	t.font.Size = size
	t.measure()
	return t
}

func (t *Text) SetAngle(angle float64) *Text {
	t.angle = angle
	return t
}

func (t *Text) measure() {
	w, h := t.ruler.Measure(t.font, t.text)
	t.width = float64(w)
	t.height = float64(h)
}
