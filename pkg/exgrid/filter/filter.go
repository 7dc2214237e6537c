// Package filter evaluates per-column predicates against formatted rows.
package filter

import (
	"strings"
	"time"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/detect"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Engine applies filter sets to rows.
type Engine struct {
	// Types are the detected column types, used when a filter declares none.
	Types map[string]models.ColumnType
	// LegacyDateCheck keeps the older equals behavior: a column whose key or
	// cell looks like a date compares by calendar day when both sides parse
	// as dates, whatever its declared type.
	LegacyDateCheck bool
}

// NewEngine returns an engine using types, with the legacy date check on.
func NewEngine(types map[string]models.ColumnType) *Engine {
	return &Engine{Types: types, LegacyDateCheck: true}
}

// Apply returns the rows passing every active predicate, in input order.
// The input slice is not modified.
func (e *Engine) Apply(rows []models.Row, set Set) []models.Row {
	active := set.Active()
	if len(active) == 0 {
		out := make([]models.Row, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if e.matchAll(r, active) {
			out = append(out, r)
		}
	}
	return out
}

func (e *Engine) matchAll(r models.Row, specs []models.FilterSpec) bool {
	for _, spec := range specs {
		if !e.Match(r, spec) {
			return false
		}
	}
	return true
}

// Match reports whether r satisfies spec. Values that cannot be parsed for
// the operator's type fail the predicate, except text containment.
func (e *Engine) Match(r models.Row, spec models.FilterSpec) bool {
	if models.IsInternal(spec.Column) || spec.IsEmpty() {
		return true
	}
	text := r.Cell(spec.Column).Text()
	typ := e.effectiveType(spec)
	value := strings.TrimSpace(spec.Value)

	switch spec.Operator {
	case models.OpDateRange:
		return matchRange(text, spec.From, spec.To)
	case models.OpEquals:
		if typ == models.FilterDate {
			return compareDates(text, value, func(a, b time.Time) bool { return detect.SameDay(a, b) })
		}
		if e.LegacyDateCheck && (detect.KeyLooksLikeDate(spec.Column) || detect.LooksLikeDate(text)) {
			if a, ok := detect.ParseDate(text); ok {
				if b, ok := detect.ParseDate(value); ok {
					return detect.SameDay(a, b)
				}
			}
		}
		if typ == models.FilterNumber {
			return compareNumbers(text, value, func(a, b float64) bool { return a == b })
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(value))
	case models.OpGTE, models.OpLTE:
		gte := spec.Operator == models.OpGTE
		switch typ {
		case models.FilterDate:
			return compareDates(text, value, func(a, b time.Time) bool {
				if gte {
					return !detect.Day(a).Before(detect.Day(b))
				}
				return !detect.Day(a).After(detect.Day(b))
			})
		case models.FilterNumber:
			return compareNumbers(text, value, func(a, b float64) bool {
				if gte {
					return a >= b
				}
				return a <= b
			})
		default:
			c := strings.Compare(strings.ToLower(text), strings.ToLower(value))
			if gte {
				return c >= 0
			}
			return c <= 0
		}
	}
	return false
}

// effectiveType resolves the comparison type. A declared type decides; the
// detected column type only fills in when none is declared. Under the legacy
// date check a column detected as a date still compares as a date.
func (e *Engine) effectiveType(spec models.FilterSpec) models.FilterType {
	detected := e.Types[spec.Column]
	if e.LegacyDateCheck && detected == models.TypeDate {
		return models.FilterDate
	}
	if spec.Type != "" {
		return spec.Type
	}
	switch detected {
	case models.TypeDate:
		return models.FilterDate
	case models.TypeNumber:
		return models.FilterNumber
	}
	return models.FilterText
}

func compareNumbers(cell, value string, cmp func(a, b float64) bool) bool {
	a, ok := detect.ParseNumber(cell)
	if !ok {
		return false
	}
	b, ok := detect.ParseNumber(value)
	if !ok {
		return false
	}
	return cmp(a, b)
}

func compareDates(cell, value string, cmp func(a, b time.Time) bool) bool {
	a, ok := detect.ParseDate(cell)
	if !ok {
		return false
	}
	b, ok := detect.ParseDate(value)
	if !ok {
		return false
	}
	return cmp(a, b)
}

// matchRange checks an inclusive range. A missing or unparsable bound is open;
// with no usable bound every row matches.
func matchRange(cell, from, to string) bool {
	lo, hasLo := detect.ParseDate(from)
	hi, hasHi := detect.ParseDate(to)
	if !hasLo && !hasHi {
		return true
	}
	d, ok := detect.ParseDate(cell)
	if !ok {
		return false
	}
	d = detect.Day(d)
	if hasLo && d.Before(detect.Day(lo)) {
		return false
	}
	if hasHi && d.After(detect.Day(hi)) {
		return false
	}
	return true
}
