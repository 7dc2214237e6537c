package format

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultMinContrast is the WCAG AA ratio for normal text.
const DefaultMinContrast = 4.5

// DefaultBackground is assumed when rules carry no table background.
const DefaultBackground = "#ffffff"

const lightnessStep = 0.02

// luminanceMidpoint is the luminance at which black and white give equal contrast.
const luminanceMidpoint = 0.179

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"orange": "#ffa500",
	"yellow": "#ffff00",
	"gray":   "#808080",
	"grey":   "#808080",
	"purple": "#800080",
}

// ParseColor accepts "#rrggbb", "rrggbb", "#rgb" or a basic color name.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// Luminance is the WCAG relative luminance of c.
func Luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio is the WCAG contrast ratio between a and b, from 1 to 21.
func ContrastRatio(a, b colorful.Color) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// AdjustContrast darkens or lightens fg against bg until the contrast ratio
// reaches min. Only HSL lightness changes; hue and saturation are kept.
// An unparsable fg is returned unchanged.
func AdjustContrast(fg, bg string, min float64) string {
	fc, ok := ParseColor(fg)
	if !ok {
		return fg
	}
	bc, ok := ParseColor(bg)
	if !ok {
		bc, _ = ParseColor(DefaultBackground)
	}
	if min <= 0 {
		min = DefaultMinContrast
	}
	if ContrastRatio(fc, bc) >= min {
		return fc.Hex()
	}
	step := lightnessStep
	if Luminance(bc) > luminanceMidpoint {
		step = -lightnessStep
	}
	h, s, l := fc.Hsl()
	out := fc
	for {
		next := math.Min(1, math.Max(0, l+step))
		if next == l {
			break
		}
		l = next
		out = colorful.Hsl(h, s, l).Clamped()
		if ContrastRatio(out, bc) >= min {
			break
		}
	}
	return out.Hex()
}
