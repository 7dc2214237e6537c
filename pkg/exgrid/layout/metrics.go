package layout

import (
	"github.com/mattn/go-runewidth"
)

// Font describes the typeface a text run is measured in.
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// DefaultHeaderFont and DefaultBodyFont match the grid's default styling.
var (
	DefaultHeaderFont = Font{Family: "Helvetica", Size: 14, Bold: true}
	DefaultBodyFont   = Font{Family: "Helvetica", Size: 14}
)

// TextMetrics measures rendered text width in pixels.
type TextMetrics interface {
	Measure(text string, font Font) float64
}

// MetricsFunc adapts a function to TextMetrics.
type MetricsFunc func(text string, font Font) float64

// Measure calls f.
func (f MetricsFunc) Measure(text string, font Font) float64 { return f(text, font) }

// CellMetrics estimates width from terminal cell counts: each cell is a
// fixed fraction of the font size, wide (East Asian) runes count twice.
type CellMetrics struct {
	// Advance is the width of one cell as a fraction of the font size.
	// Zero means 0.6.
	Advance float64
	// BoldFactor widens bold text. Zero means 1.1.
	BoldFactor float64
}

// Measure implements TextMetrics.
func (m CellMetrics) Measure(text string, font Font) float64 {
	adv := m.Advance
	if adv <= 0 {
		adv = 0.6
	}
	size := font.Size
	if size <= 0 {
		size = DefaultBodyFont.Size
	}
	w := float64(runewidth.StringWidth(text)) * size * adv
	if font.Bold {
		bf := m.BoldFactor
		if bf <= 0 {
			bf = 1.1
		}
		w *= bf
	}
	return w
}
