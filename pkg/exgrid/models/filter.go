package models

import "strings"

// FilterType is the declared comparison type of a filter.
type FilterType string

const (
	// FilterNumber compares cleaned numeric values.
	FilterNumber FilterType = "number"
	// FilterText compares case-insensitive text.
	FilterText FilterType = "text"
	// FilterDate compares calendar days.
	FilterDate FilterType = "date"
)

// Operator is a filter predicate operator.
type Operator string

const (
	// OpEquals is equality (substring containment for text).
	OpEquals Operator = "equals"
	// OpGTE is greater-than-or-equal.
	OpGTE Operator = "gte"
	// OpLTE is less-than-or-equal.
	OpLTE Operator = "lte"
	// OpDateRange is an inclusive or open-ended date range.
	OpDateRange Operator = "dateRange"
)

// FilterSpec is one active per-column predicate.
type FilterSpec struct {
	// Column is the row key the predicate applies to.
	Column string `json:"column"`
	// Type is the declared comparison type.
	Type FilterType `json:"type"`
	// Operator is the predicate operator.
	Operator Operator `json:"operator"`
	// Value is the comparison operand for equals/gte/lte.
	Value string `json:"value,omitempty"`
	// From is the lower bound for dateRange.
	From string `json:"from,omitempty"`
	// To is the upper bound for dateRange.
	To string `json:"to,omitempty"`
}

// IsEmpty reports whether the spec carries no predicate.
func (f FilterSpec) IsEmpty() bool {
	if f.Operator == OpDateRange {
		return strings.TrimSpace(f.From) == "" && strings.TrimSpace(f.To) == ""
	}
	return strings.TrimSpace(f.Value) == ""
}
