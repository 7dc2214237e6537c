package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// tenPerRune measures every rune as 10px regardless of font.
var tenPerRune = MetricsFunc(func(text string, _ Font) float64 {
	return float64(len([]rune(text))) * 10
})

func TestWidth(t *testing.T) {
	t.Parallel()
	e := NewEngine(tenPerRune)

	tests := []struct {
		name   string
		label  string
		values []string
		want   float64
	}{
		{"clamped to min", "Id", []string{"1", "2"}, 80},
		{"header dominates", "Transaction", []string{"12"}, 150},
		{"content dominates", "Name", []string{"a", strings.Repeat("x", 30)}, 324},
		{"clamped to max", "Notes", []string{strings.Repeat("y", 120)}, 800},
		{"no values", "Description", nil, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Width(tt.label, tt.values))
		})
	}
}

func TestWidthSamplesFirstRows(t *testing.T) {
	t.Parallel()
	e := NewEngine(tenPerRune)
	e.SampleRows = 2
	values := []string{"a", "b", strings.Repeat("z", 50)}
	assert.Equal(t, float64(80), e.Width("X", values))
}

func TestColumnOverride(t *testing.T) {
	t.Parallel()
	e := NewEngine(tenPerRune)
	b := e.Column("Name", []string{strings.Repeat("x", 60)}, 120)
	assert.Equal(t, Bounds{Width: 120, Min: 60, Max: 240}, b)

	b = e.Column("Name", nil, 0)
	assert.Equal(t, float64(DefaultMin), b.Min)
	assert.Equal(t, float64(DefaultMax), b.Max)
}

func TestColumns(t *testing.T) {
	t.Parallel()
	e := NewEngine(tenPerRune)
	specs := []models.ColumnSpec{{Key: "Amount", Label: "Amount"}, {Key: "City"}}
	rows := []models.Row{
		models.NewRow("Amount", "1,200.50", "City", strings.Repeat("c", 40)),
		models.NewRow("Amount", 3),
	}
	out := e.Columns(specs, rows, map[string]float64{"Amount": 100})
	require.Len(t, out, 2)
	assert.Equal(t, float64(100), out[0].Width)
	assert.Equal(t, float64(50), out[0].MinWidth)
	assert.Equal(t, float64(424), out[1].Width)
	assert.Zero(t, specs[1].Width, "input specs untouched")
}

func TestCellMetrics(t *testing.T) {
	t.Parallel()
	m := CellMetrics{}
	f := Font{Size: 10}
	assert.InDelta(t, 18, m.Measure("abc", f), 1e-9)
	assert.InDelta(t, 24, m.Measure("日本", f), 1e-9, "wide runes take two cells")
	assert.InDelta(t, 19.8, m.Measure("abc", Font{Size: 10, Bold: true}), 1e-9)
}

func TestZeroEngineUsesDefaults(t *testing.T) {
	t.Parallel()
	var e Engine
	w := e.Width("Amount", []string{"12"})
	assert.GreaterOrEqual(t, w, float64(DefaultMin))
	assert.LessOrEqual(t, w, float64(DefaultMax))
}

func TestExcelWidth(t *testing.T) {
	t.Parallel()
	assert.Equal(t, float64(1), ExcelWidth(0))
	assert.Equal(t, float64(10), ExcelWidth(75))
	assert.InDelta(t, 16.43, ExcelWidth(120), 0.001)
}
