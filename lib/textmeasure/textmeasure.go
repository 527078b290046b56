// Package textmeasure measures single and multi line text with TrueType metrics.
//
// The Go font family is embedded through golang.org/x/image, so measurements are
// deterministic across machines.
package textmeasure

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const TAB_SIZE = 4

// FontFamily values match the excalidraw fontFamily attribute.
type FontFamily int

const (
	HandDrawn FontFamily = 1
	Normal    FontFamily = 2
	Code      FontFamily = 3
)

var FontFamilies = []FontFamily{
	HandDrawn,
	Normal,
	Code,
}

func (f FontFamily) Font(size int) Font {
	return Font{
		Family: f,
		Size:   size,
	}
}

func (f FontFamily) String() string {
	switch f {
	case HandDrawn:
		return "HandDrawn"
	case Normal:
		return "Normal"
	case Code:
		return "Code"
	}
	return fmt.Sprintf("FontFamily(%d)", int(f))
}

type Font struct {
	Family FontFamily
	Size   int
}

// Measurer reports the rendered size of text. Implementations must return the same
// dimensions for the same input.
type Measurer interface {
	Measure(font Font, s string) (width, height int)
}

// Ruler measures text with the embedded Go fonts. It is safe for concurrent use.
type Ruler struct {
	ttfs map[FontFamily]*truetype.Font

	mu    sync.Mutex
	faces map[Font]font.Face
}

var faceData = map[FontFamily][]byte{
	HandDrawn: goitalic.TTF,
	Normal:    goregular.TTF,
	Code:      gomono.TTF,
}

func NewRuler() (*Ruler, error) {
	r := &Ruler{
		ttfs:  make(map[FontFamily]*truetype.Font),
		faces: make(map[Font]font.Face),
	}
	for _, family := range FontFamilies {
		ttf, err := truetype.Parse(faceData[family])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s font: %w", family, err)
		}
		r.ttfs[family] = ttf
	}
	return r, nil
}

func (r *Ruler) HasFontFamilyLoaded(family FontFamily) bool {
	_, ok := r.ttfs[family]
	return ok
}

func (r *Ruler) face(f Font) font.Face {
	if face, ok := r.faces[f]; ok {
		return face
	}
	ttf, ok := r.ttfs[f.Family]
	if !ok {
		ttf = r.ttfs[Normal]
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size: float64(f.Size),
	})
	r.faces[f] = face
	return face
}

// Measure returns the width of the widest line and the height of all lines.
// Empty text still occupies one line.
func (r *Ruler) Measure(f Font, s string) (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	face := r.face(f)
	lineHeight := face.Metrics().Height.Ceil()

	lines := strings.Split(s, "\n")
	w := 0.
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", TAB_SIZE))
		adv := font.MeasureString(face, line)
		w = math.Max(w, float64(adv.Ceil()))
	}
	return int(w), lineHeight * len(lines)
}
