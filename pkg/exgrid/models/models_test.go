package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowJSONKeepsKeyOrder(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"_id":"r1","a":"x","m":null,"s":{"value":5,"color":"#ff0000"}}`), &r))

	assert.Equal(t, []string{"z", "_id", "a", "m", "s"}, r.Keys())
	assert.Equal(t, []string{"z", "a", "m", "s"}, r.DataKeys())
	assert.Equal(t, KindNumber, r.Cell("z").Value.Kind)
	assert.Equal(t, KindNull, r.Cell("m").Value.Kind)
	assert.Equal(t, "#ff0000", r.Cell("s").Color())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"_id":"r1","a":"x","m":null,"s":{"value":5,"color":"#ff0000"}}`, string(out))
}

func TestRowCloneIsIndependent(t *testing.T) {
	r := NewRow("a", Styled(Scalar{Kind: KindString, Str: "x"}, "#000000"))
	c := r.Clone()
	c.Set("b", Number(1))
	c.cells["a"].Style.Color = "#ffffff"

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "#000000", r.Cell("a").Color())
}

func TestCellOf(t *testing.T) {
	assert.Equal(t, Number(3), CellOf(3))
	assert.Equal(t, Number(2.5), CellOf(2.5))
	assert.Equal(t, String("true"), CellOf(true))
	assert.Equal(t, Null(), CellOf(nil))
	assert.Equal(t, "x", CellOf(" x ").Text())
}

func TestDataColumnsUnion(t *testing.T) {
	rows := []Row{
		NewRow("_id", "1", "a", 1),
		NewRow("b", 2, "a", 3),
	}
	assert.Equal(t, []string{"a", "b"}, DataColumns(rows))
}

func TestSortToggleCycle(t *testing.T) {
	var s SortSpec
	s = s.Toggle("a")
	assert.Equal(t, Asc, s.Direction("a"))
	s = s.Toggle("b")
	s = s.Toggle("a")
	assert.Equal(t, SortSpec{{Column: "a", Direction: Desc}, {Column: "b", Direction: Asc}}, s)
	s = s.Toggle("a")
	assert.Equal(t, SortSpec{{Column: "b", Direction: Asc}}, s)
	assert.Equal(t, Direction(""), s.Direction("a"))
}

func TestRulesPlaces(t *testing.T) {
	three := 3
	r := FormattingRules{
		DecimalColumns:   []string{"a", "b"},
		DecimalOverrides: map[string]int{"b": 0, "c": 4},
	}
	p, ok := r.Places("a")
	assert.True(t, ok)
	assert.Equal(t, DefaultDecimalPlaces, p)

	r.DecimalPlaces = &three
	p, _ = r.Places("a")
	assert.Equal(t, 3, p)

	p, ok = r.Places("b")
	assert.True(t, ok)
	assert.Equal(t, 0, p)

	p, ok = r.Places("c")
	assert.True(t, ok)
	assert.Equal(t, 4, p)

	_, ok = r.Places("d")
	assert.False(t, ok)
}

func TestRulesLabelFallsBackToKey(t *testing.T) {
	r := FormattingRules{Labels: map[string]string{"amt": "Amount", "x": ""}}
	assert.Equal(t, "Amount", r.Label("amt"))
	assert.Equal(t, "x", r.Label("x"))
}

func TestFilterSpecIsEmpty(t *testing.T) {
	assert.True(t, FilterSpec{Value: "  "}.IsEmpty())
	assert.False(t, FilterSpec{Value: "a"}.IsEmpty())
	assert.True(t, FilterSpec{Operator: OpDateRange}.IsEmpty())
	assert.False(t, FilterSpec{Operator: OpDateRange, To: "2024-01-01"}.IsEmpty())
}

func TestMembershipPredicates(t *testing.T) {
	p := ColumnPrefs{Frozen: []string{"Name"}, TreatAsText: []string{"Code"}}
	assert.True(t, p.IsFrozen("Name"))
	assert.False(t, p.IsFrozen("Code"))
	assert.True(t, p.IsText("Code"))
	assert.False(t, ColumnPrefs{}.IsText("Code"))

	r := FormattingRules{
		DateColumns:   []string{"Posted"},
		HiddenColumns: []string{"Secret"},
		TotalColumns:  []string{"Amount"},
	}
	assert.True(t, r.IsDate("Posted"))
	assert.True(t, r.IsHidden("Secret"))
	assert.True(t, r.IsTotal("Amount"))
	assert.False(t, r.IsTotal("amount"), "keys are case-sensitive")
}
