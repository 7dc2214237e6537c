// Package summary computes the totals row over the visible rows.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/format"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Places is the precision of every total.
const Places = 2

// Sum adds the parseable numeric values of column key. Styled cells are
// unwrapped; blank or non-numeric cells contribute zero.
func Sum(rows []models.Row, key string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		v := r.Cell(key).Unwrap()
		switch v.Kind {
		case models.KindNumber:
			total = total.Add(decimal.NewFromFloat(v.Num))
		case models.KindString:
			if d, ok := format.ParseDecimal(v.Str); ok {
				total = total.Add(d)
			}
		}
	}
	return total
}

// Aggregate builds the totals row for columns. When f is non-nil the
// column's color rule is applied to each total. Internal keys are skipped.
// Count is always len(rows).
func Aggregate(rows []models.Row, columns []string, f *format.Formatter) *models.SummaryRow {
	out := &models.SummaryRow{
		Cells: make(map[string]models.Cell, len(columns)),
		Count: len(rows),
	}
	for _, key := range columns {
		if models.IsInternal(key) {
			continue
		}
		c := models.String(Sum(rows, key).StringFixed(Places))
		if f != nil {
			c = f.Color(key, c)
		}
		out.Cells[key] = c
	}
	return out
}
