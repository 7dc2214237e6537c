package models

import "slices"

// DefaultDecimalPlaces is used when a decimal column has no explicit precision.
const DefaultDecimalPlaces = 2

// Threshold maps a comparison operand to a color.
type Threshold struct {
	Value float64 `json:"value" koanf:"value"`
	Color string  `json:"color" koanf:"color"`
}

// ColorRule colors a numeric value by comparing it against thresholds.
// Rules are checked in the order less-than, greater-than, equal-to.
type ColorRule struct {
	LessThan    *Threshold `json:"less_than,omitempty" koanf:"less_than"`
	GreaterThan *Threshold `json:"greater_than,omitempty" koanf:"greater_than"`
	EqualTo     *Threshold `json:"equal_to,omitempty" koanf:"equal_to"`
}

// Responsive lists the columns shown per viewport class.
// An empty list shows every column.
type Responsive struct {
	Narrow []string `json:"narrow,omitempty" koanf:"narrow"`
	Medium []string `json:"medium,omitempty" koanf:"medium"`
	Wide   []string `json:"wide,omitempty" koanf:"wide"`
}

// FormattingRules is the per-report presentation configuration.
// It is loaded once per report view and must not be mutated afterwards.
type FormattingRules struct {
	// DateColumns are reformatted to DateFormat.
	DateColumns []string `json:"date_columns,omitempty" koanf:"date_columns"`
	// DateFormat is a token layout such as "DD-MM-YYYY".
	DateFormat string `json:"date_format,omitempty" koanf:"date_format"`
	// DecimalColumns are fixed to DecimalPlaces.
	DecimalColumns []string `json:"decimal_columns,omitempty" koanf:"decimal_columns"`
	// DecimalPlaces is the default precision for DecimalColumns.
	DecimalPlaces *int `json:"decimal_places,omitempty" koanf:"decimal_places"`
	// DecimalOverrides sets per-column precision.
	DecimalOverrides map[string]int `json:"decimal_overrides,omitempty" koanf:"decimal_overrides"`
	// ColorRules maps a column to its conditional color rule.
	ColorRules map[string]ColorRule `json:"color_rules,omitempty" koanf:"color_rules"`
	// HiddenColumns are never shown or exported.
	HiddenColumns []string `json:"hidden_columns,omitempty" koanf:"hidden_columns"`
	// LeftAligned forces left alignment.
	LeftAligned []string `json:"left_aligned,omitempty" koanf:"left_aligned"`
	// RightAligned forces right alignment.
	RightAligned []string `json:"right_aligned,omitempty" koanf:"right_aligned"`
	// ColumnWidths are explicit pixel widths.
	ColumnWidths map[string]float64 `json:"column_widths,omitempty" koanf:"column_widths"`
	// Responsive holds the per-viewport column lists.
	Responsive Responsive `json:"responsive,omitempty" koanf:"responsive"`
	// TotalColumns are summed into the totals row.
	TotalColumns []string `json:"total_columns,omitempty" koanf:"total_columns"`
	// Labels overrides header labels.
	Labels map[string]string `json:"labels,omitempty" koanf:"labels"`
	// Background is the table background used for contrast checks.
	Background string `json:"background,omitempty" koanf:"background"`
	// MinContrast is the minimum WCAG contrast ratio for colored values.
	MinContrast float64 `json:"min_contrast,omitempty" koanf:"min_contrast"`
}

// IsDate reports whether key is a configured date column.
func (r FormattingRules) IsDate(key string) bool { return slices.Contains(r.DateColumns, key) }

// Places returns the decimal precision for key and whether key is a decimal column.
func (r FormattingRules) Places(key string) (int, bool) {
	if p, ok := r.DecimalOverrides[key]; ok && p >= 0 {
		return p, true
	}
	if !slices.Contains(r.DecimalColumns, key) {
		return 0, false
	}
	if r.DecimalPlaces != nil && *r.DecimalPlaces >= 0 {
		return *r.DecimalPlaces, true
	}
	return DefaultDecimalPlaces, true
}

// IsHidden reports whether key is hidden.
func (r FormattingRules) IsHidden(key string) bool { return slices.Contains(r.HiddenColumns, key) }

// IsLeftAligned reports whether key has a left-alignment override.
func (r FormattingRules) IsLeftAligned(key string) bool { return slices.Contains(r.LeftAligned, key) }

// IsRightAligned reports whether key has a right-alignment override.
func (r FormattingRules) IsRightAligned(key string) bool { return slices.Contains(r.RightAligned, key) }

// IsTotal reports whether key is summed into the totals row.
func (r FormattingRules) IsTotal(key string) bool { return slices.Contains(r.TotalColumns, key) }

// ColorRule returns the color rule for key.
func (r FormattingRules) ColorRule(key string) (ColorRule, bool) {
	rule, ok := r.ColorRules[key]
	return rule, ok
}

// Width returns the explicit width for key.
func (r FormattingRules) Width(key string) (float64, bool) {
	w, ok := r.ColumnWidths[key]
	return w, ok && w > 0
}

// Label returns the header label for key.
func (r FormattingRules) Label(key string) string {
	if l, ok := r.Labels[key]; ok && l != "" {
		return l
	}
	return key
}

// Columns returns the responsive column list for vp; nil means all columns.
func (r FormattingRules) Columns(vp Viewport) []string {
	switch vp {
	case ViewportNarrow:
		return r.Responsive.Narrow
	case ViewportMedium:
		return r.Responsive.Medium
	case ViewportWide:
		return r.Responsive.Wide
	}
	return nil
}
