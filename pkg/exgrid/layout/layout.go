// Package layout estimates column pixel widths from header and content text.
package layout

import (
	"math"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Width defaults.
const (
	DefaultMin             = 80
	DefaultMax             = 800
	DefaultHeaderAllowance = 40
	DefaultPadding         = 24
	DefaultSampleRows      = 200
)

// Engine computes column widths. The zero value is usable: it measures with
// CellMetrics and uses the default bounds.
type Engine struct {
	Metrics         TextMetrics
	HeaderFont      Font
	BodyFont        Font
	Min             float64
	Max             float64
	HeaderAllowance float64
	Padding         float64
	SampleRows      int
}

// NewEngine returns an engine with default settings measuring with m.
func NewEngine(m TextMetrics) *Engine {
	return &Engine{
		Metrics:         m,
		HeaderFont:      DefaultHeaderFont,
		BodyFont:        DefaultBodyFont,
		Min:             DefaultMin,
		Max:             DefaultMax,
		HeaderAllowance: DefaultHeaderAllowance,
		Padding:         DefaultPadding,
		SampleRows:      DefaultSampleRows,
	}
}

// Bounds is a computed width with its resize limits.
type Bounds struct {
	Width float64
	Min   float64
	Max   float64
}

// Width returns max(label width + header allowance, widest value + padding),
// clamped to [Min, Max]. Only the first SampleRows values are measured.
func (e *Engine) Width(label string, values []string) float64 {
	m := e.metrics()
	header := m.Measure(label, e.headerFont()) + e.orDefault(e.HeaderAllowance, DefaultHeaderAllowance)

	content := 0.0
	limit := e.SampleRows
	if limit <= 0 {
		limit = DefaultSampleRows
	}
	body := e.bodyFont()
	for i, v := range values {
		if i >= limit {
			break
		}
		if w := m.Measure(v, body); w > content {
			content = w
		}
	}
	content += e.orDefault(e.Padding, DefaultPadding)

	lo, hi := e.orDefault(e.Min, DefaultMin), e.orDefault(e.Max, DefaultMax)
	return math.Round(clamp(math.Max(header, content), lo, hi))
}

// Column computes the bounds for one column. An explicit override always
// wins and derives resize limits of 50% and 200% of itself.
func (e *Engine) Column(label string, values []string, override float64) Bounds {
	if override > 0 {
		return Bounds{Width: override, Min: override * 0.5, Max: override * 2}
	}
	return Bounds{
		Width: e.Width(label, values),
		Min:   e.orDefault(e.Min, DefaultMin),
		Max:   e.orDefault(e.Max, DefaultMax),
	}
}

// Columns fills Width, MinWidth and MaxWidth of each spec from the row sample.
// Specs are returned as new values.
func (e *Engine) Columns(specs []models.ColumnSpec, rows []models.Row, overrides map[string]float64) []models.ColumnSpec {
	limit := e.SampleRows
	if limit <= 0 {
		limit = DefaultSampleRows
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.ColumnSpec, len(specs))
	for i, spec := range specs {
		values := make([]string, len(rows))
		for j, r := range rows {
			values[j] = r.Cell(spec.Key).Text()
		}
		label := spec.Label
		if label == "" {
			label = spec.Key
		}
		b := e.Column(label, values, overrides[spec.Key])
		spec.Width, spec.MinWidth, spec.MaxWidth = b.Width, b.Min, b.Max
		out[i] = spec
	}
	return out
}

// ExcelWidth converts a pixel width to spreadsheet column width units
// (characters of the default 11pt font, 7px each plus 5px padding).
func ExcelWidth(px float64) float64 {
	if px <= 5 {
		return 1
	}
	return math.Round((px-5)/7*100) / 100
}

func (e *Engine) metrics() TextMetrics {
	if e.Metrics == nil {
		return CellMetrics{}
	}
	return e.Metrics
}

func (e *Engine) headerFont() Font {
	if e.HeaderFont.Size <= 0 {
		return DefaultHeaderFont
	}
	return e.HeaderFont
}

func (e *Engine) bodyFont() Font {
	if e.BodyFont.Size <= 0 {
		return DefaultBodyFont
	}
	return e.BodyFont
}

func (e *Engine) orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
