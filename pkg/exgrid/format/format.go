// Package format turns raw cells into display cells: date reformatting,
// fixed-precision decimals and conditional colors.
package format

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/detect"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// compactLayout is tried before the shared date patterns.
const compactLayout = "20060102"

// Formatter applies FormattingRules to cells. It holds no state between
// cells and is safe for concurrent use.
type Formatter struct {
	rules       models.FormattingRules
	layout      string
	background  string
	minContrast float64
}

// New builds a Formatter for rules. Missing settings fall back to defaults.
func New(rules models.FormattingRules) *Formatter {
	f := &Formatter{
		rules:       rules,
		layout:      GoLayout(rules.DateFormat),
		background:  rules.Background,
		minContrast: rules.MinContrast,
	}
	if f.background == "" {
		f.background = DefaultBackground
	}
	if f.minContrast <= 0 {
		f.minContrast = DefaultMinContrast
	}
	return f
}

// Rules returns the rules the formatter was built with.
func (f *Formatter) Rules() models.FormattingRules { return f.rules }

// ParseDateValue parses a stored date: compact YYYYMMDD first, then the
// shared strict patterns, then general date parsing.
func ParseDateValue(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(compactLayout, s); err == nil {
		return t, true
	}
	if t, ok := detect.ParseDate(s); ok {
		return t, true
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Date reformats a date cell to the configured layout. Unparsable input
// yields an empty string. The presentation hint is kept.
func (f *Formatter) Date(c models.Cell) models.Cell {
	t, ok := ParseDateValue(c.Text())
	if !ok {
		return c.WithValue(models.String("").Value)
	}
	return c.WithValue(models.String(t.Format(f.layout)).Value)
}

// FormatDecimal fixes s to places decimals. Null, blank or unparsable input
// yields "". FormatDecimal(FormatDecimal(s, p), p) == FormatDecimal(s, p).
func FormatDecimal(s string, places int) string {
	d, ok := ParseDecimal(s)
	if !ok {
		return ""
	}
	return d.StringFixed(int32(places))
}

// ParseDecimal parses s as an exact decimal after cleaning.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	if _, ok := detect.ParseNumber(s); !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(detect.CleanNumber(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Decimal fixes a cell to places decimals.
func (f *Formatter) Decimal(c models.Cell, places int) models.Cell {
	v := c.Unwrap()
	if v.Kind == models.KindNumber {
		return c.WithValue(models.String(decimal.NewFromFloat(v.Num).StringFixed(int32(places))).Value)
	}
	return c.WithValue(models.String(FormatDecimal(v.String(), places)).Value)
}

// RuleColor returns the color the rule assigns to v, if any.
func RuleColor(rule models.ColorRule, v float64) (string, bool) {
	switch {
	case rule.LessThan != nil && v < rule.LessThan.Value:
		return rule.LessThan.Color, true
	case rule.GreaterThan != nil && v > rule.GreaterThan.Value:
		return rule.GreaterThan.Color, true
	case rule.EqualTo != nil && v == rule.EqualTo.Value:
		return rule.EqualTo.Color, true
	}
	return "", false
}

// Color applies the column's color rule. Non-numeric cells and columns
// without a rule are returned unchanged.
func (f *Formatter) Color(key string, c models.Cell) models.Cell {
	rule, ok := f.rules.ColorRule(key)
	if !ok {
		return c
	}
	v, ok := detect.ParseNumber(c.Text())
	if !ok {
		return c
	}
	color, ok := RuleColor(rule, v)
	if !ok {
		return c
	}
	return models.Styled(c.Unwrap(), AdjustContrast(color, f.background, f.minContrast))
}

// Cell formats one cell of column key.
func (f *Formatter) Cell(key string, c models.Cell) models.Cell {
	if f.rules.IsDate(key) {
		c = f.Date(c)
	} else if places, ok := f.rules.Places(key); ok {
		c = f.Decimal(c, places)
	}
	return f.Color(key, c)
}

// Row formats every data cell of r into a new row. Internal keys are copied as is.
func (f *Formatter) Row(r models.Row) models.Row {
	var out models.Row
	for _, key := range r.Keys() {
		c := r.Cell(key)
		if !models.IsInternal(key) {
			c = f.Cell(key, c)
		}
		out.Set(key, c)
	}
	return out
}

// Rows formats all rows.
func (f *Formatter) Rows(rows []models.Row) []models.Row {
	out := make([]models.Row, len(rows))
	for i, r := range rows {
		out[i] = f.Row(r)
	}
	return out
}
