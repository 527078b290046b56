package color

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	Black       = "#000000"
	White       = "#ffffff"
	Transparent = "transparent"

	// MinContrast is the WCAG AA ratio required between a fill and black text.
	MinContrast = 4.5

	repairStep = .1
)

// Palette is the discrete palette used by the palette coloring policy.
var Palette = []string{
	"#EF476F", "#FFD166", "#06D6A0", "#118AB2", "#073B4C",
	"#FC5185", "#FFCE66", "#6EC4E8", "#4B4E6D", "#E8AEB7",
	"#EDC7B7", "#FF8A5B", "#F4C2C2", "#8E6C88", "#BDBDBD",
	"#EDF5E1", "#F7FFF7", "#218380", "#FFA500", "#FFC0CB",
	"#8B0000", "#FF4500", "#FFA07A", "#FF1493", "#FF69B4",
	"#FFD700", "#DC143C", "#00FF00", "#4169E1", "#FF00FF",
	"#BA55D3", "#00FA9A", "#00FFFF", "#FFB6C1", "#9ACD32",
	"#FFFF00", "#FF7F50", "#8A2BE2", "#00BFFF", "#8B008B",
	"#000080", "#FFDAB9", "#FFFFE0", "#FFE4E1", "#C0C0C0",
	"#808080",
}

func parse(colorString string) (colorful.Color, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return colorful.Color{}, err
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}, nil
}

// quantize rounds c to what its hex string encodes, so that contrast checks match the
// color that is actually emitted.
func quantize(c colorful.Color) colorful.Color {
	q, _ := colorful.Hex(c.Clamped().Hex())
	return q
}

func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func contrastWithBlack(c colorful.Color) float64 {
	return (relativeLuminance(c) + 0.05) / 0.05
}

// RelativeLuminance is the WCAG relative luminance of a CSS color, in [0, 1].
func RelativeLuminance(colorString string) (float64, error) {
	c, err := parse(colorString)
	if err != nil {
		return 0, err
	}
	return relativeLuminance(c), nil
}

// ContrastWithBlack is the WCAG contrast ratio between a CSS color and black.
func ContrastWithBlack(colorString string) (float64, error) {
	c, err := parse(colorString)
	if err != nil {
		return 0, err
	}
	return contrastWithBlack(c), nil
}

// Random samples uniformly random colors until one is readable under black text.
func Random(rng *rand.Rand) string {
	for {
		c := colorful.Color{
			R: float64(rng.Intn(256)) / 255,
			G: float64(rng.Intn(256)) / 255,
			B: float64(rng.Intn(256)) / 255,
		}
		if contrastWithBlack(c) >= MinContrast {
			return c.Hex()
		}
	}
}

// companionHSV is the companion sample before any contrast repair.
func companionHSV(base colorful.Color, rng *rand.Rand) (h, s, v float64) {
	h, s, v = base.Hsv()
	h = math.Mod(h+90+90*rng.Float64(), 360)
	s = math.Max(s-repairStep, 0)
	v = math.Min(v+repairStep, 1)
	return h, s, v
}

// Companion derives a color whose hue sits 90° to 180° away from colorString, slightly
// lighter and less saturated, and readable under black text.
func Companion(colorString string, rng *rand.Rand) (string, error) {
	base, err := parse(colorString)
	if err != nil {
		return "", fmt.Errorf("invalid base color %q: %w", colorString, err)
	}
	h, s, v := companionHSV(base, rng)
	c := quantize(colorful.Hsv(h, s, v))
	for contrastWithBlack(c) < MinContrast {
		if v < 1 {
			v = math.Min(v+repairStep, 1)
		} else if s > 0 {
			s = math.Max(s-repairStep, 0)
		} else {
			break
		}
		c = quantize(colorful.Hsv(h, s, v))
	}
	return c.Hex(), nil
}

// FromPalette samples a palette color different from exclude.
func FromPalette(rng *rand.Rand, exclude string) (string, error) {
	candidates := make([]string, 0, len(Palette))
	for _, c := range Palette {
		if !strings.EqualFold(c, exclude) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("palette has no color other than %q", exclude)
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// SamplePalette draws n palette colors different from exclude without replacement. Once
// every candidate has been drawn the sampling starts over.
func SamplePalette(rng *rand.Rand, n int, exclude string) ([]string, error) {
	var candidates []string
	var out []string
	for len(out) < n {
		if len(candidates) == 0 {
			for _, c := range Palette {
				if !strings.EqualFold(c, exclude) {
					candidates = append(candidates, c)
				}
			}
			if len(candidates) == 0 {
				return nil, fmt.Errorf("palette has no color other than %q", exclude)
			}
		}
		i := rng.Intn(len(candidates))
		out = append(out, candidates[i])
		candidates = append(candidates[:i], candidates[i+1:]...)
	}
	return out, nil
}

// HueDistance is the circular distance between two hues in degrees, in [0, 180].
func HueDistance(h1, h2 float64) float64 {
	d := math.Mod(math.Abs(h1-h2), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Hue returns the HSV hue of a CSS color in degrees.
func Hue(colorString string) (float64, error) {
	c, err := parse(colorString)
	if err != nil {
		return 0, err
	}
	h, _, _ := c.Hsv()
	return h, nil
}
