package exgrid

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// tenPerRune measures every rune as 10px regardless of font.
var tenPerRune = layout.MetricsFunc(func(text string, _ layout.Font) float64 {
	return float64(utf8.RuneCountInString(text)) * 10
})

func ledgerRows() []models.Row {
	return []models.Row{
		models.NewRow("_id", "r1", "Name", "Alice", "Amount", 1200.5, "Code", "INV2024001"),
		models.NewRow("_id", "r2", "Name", "Bob", "Amount", 300, "Code", "INV2024002"),
		models.NewRow("_id", "r3", "Name", "Carol", "Amount", 800, "Code", "INV2024003"),
	}
}

func ledgerTypes() map[string]models.ColumnType {
	return map[string]models.ColumnType{
		"Name":   models.TypeText,
		"Amount": models.TypeNumber,
		"Code":   models.TypeNone,
	}
}

func keys(specs []models.ColumnSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Key
	}
	return out
}

func TestDeriveColumnsOrderAndAlignment(t *testing.T) {
	t.Parallel()
	specs := DeriveColumns(ledgerRows(), ledgerTypes(), models.FormattingRules{}, models.ColumnPrefs{},
		models.ViewportWide, layout.NewEngine(tenPerRune))

	require.Equal(t, []string{"Name", "Amount", "Code"}, keys(specs))
	assert.Equal(t, models.AlignLeft, specs[0].Align)
	assert.Equal(t, models.AlignRight, specs[1].Align)
	assert.Equal(t, models.TypeNone, specs[2].Type)
	// "INV2024001" is 100px plus 24px padding.
	assert.Equal(t, 124.0, specs[2].Width)
	assert.Equal(t, 80.0, specs[0].Width)
}

func TestDeriveColumnsOverrides(t *testing.T) {
	t.Parallel()
	rules := models.FormattingRules{
		HiddenColumns: []string{"Code"},
		LeftAligned:   []string{"Amount"},
		Labels:        map[string]string{"Amount": "Amount (INR)"},
		ColumnWidths:  map[string]float64{"Name": 200},
	}
	prefs := models.ColumnPrefs{Frozen: []string{"Amount"}, TreatAsText: []string{"Code"}}
	specs := DeriveColumns(ledgerRows(), ledgerTypes(), rules, prefs, models.ViewportWide, layout.NewEngine(tenPerRune))

	require.Equal(t, []string{"Amount", "Name", "Code"}, keys(specs))
	assert.True(t, specs[0].Frozen)
	assert.Equal(t, "Amount (INR)", specs[0].Label)
	assert.Equal(t, models.AlignLeft, specs[0].Align)
	assert.Equal(t, 200.0, specs[1].Width)
	assert.Equal(t, 100.0, specs[1].MinWidth)
	assert.Equal(t, 400.0, specs[1].MaxWidth)
	assert.True(t, specs[2].Hidden)
	assert.Equal(t, models.TypeText, specs[2].Type)

	assert.Equal(t, []string{"Amount", "Name"}, keys(Visible(specs)))
}

func TestDeriveColumnsResponsive(t *testing.T) {
	t.Parallel()
	rules := models.FormattingRules{
		Responsive: models.Responsive{
			Narrow: []string{"Amount", "Missing", "Name"},
		},
	}
	narrow := DeriveColumns(ledgerRows(), ledgerTypes(), rules, models.ColumnPrefs{}, models.ViewportNarrow, nil)
	assert.Equal(t, []string{"Amount", "Name"}, keys(narrow))

	wide := DeriveColumns(ledgerRows(), ledgerTypes(), rules, models.ColumnPrefs{}, models.ViewportWide, nil)
	assert.Equal(t, []string{"Name", "Amount", "Code"}, keys(wide))
}

func TestDeriveColumnsUnknownType(t *testing.T) {
	t.Parallel()
	specs := DeriveColumns([]models.Row{models.NewRow("Extra", "x")}, nil, models.FormattingRules{},
		models.ColumnPrefs{}, models.ViewportWide, nil)
	require.Len(t, specs, 1)
	assert.Equal(t, models.TypeNone, specs[0].Type)
}

func TestParseViewport(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want models.Viewport
	}{
		{"", models.ViewportWide},
		{"desktop", models.ViewportWide},
		{"Tablet", models.ViewportMedium},
		{" mobile ", models.ViewportNarrow},
		{"narrow", models.ViewportNarrow},
	}
	for _, tt := range tests {
		got, err := ParseViewport(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseViewport("watch")
	assert.ErrorIs(t, err, ErrUnknownViewport)
}

func TestOptionsDefaults(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	assert.True(t, opts.ShouldUseLegacyDateCheck())
	assert.Equal(t, "en", opts.Language().String())

	off := false
	opts.LegacyDateCheck = &off
	opts.Locale = "not a locale!"
	assert.False(t, opts.ShouldUseLegacyDateCheck())
	assert.Equal(t, "en", opts.Language().String())
}
