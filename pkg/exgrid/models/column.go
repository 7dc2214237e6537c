package models

// ColumnType is the semantic type of a column.
type ColumnType string

const (
	// TypeNumber marks numeric columns.
	TypeNumber ColumnType = "number"
	// TypeDate marks date columns.
	TypeDate ColumnType = "date"
	// TypeText marks filterable text columns.
	TypeText ColumnType = "text"
	// TypeNone marks free-form or code-like columns that get no filter.
	TypeNone ColumnType = "none"
)

// Alignment is the horizontal alignment of a column.
type Alignment string

const (
	// AlignLeft aligns to the left edge.
	AlignLeft Alignment = "left"
	// AlignRight aligns to the right edge.
	AlignRight Alignment = "right"
)

// Viewport is the display class that selects a responsive column subset.
type Viewport string

const (
	// ViewportNarrow is the mobile column subset.
	ViewportNarrow Viewport = "narrow"
	// ViewportMedium is the tablet column subset.
	ViewportMedium Viewport = "medium"
	// ViewportWide is the desktop column set.
	ViewportWide Viewport = "wide"
)

// ColumnSpec describes how one column is presented.
// A ColumnSpec is derived, never edited in place.
type ColumnSpec struct {
	// Key is the row key for the column.
	Key string `json:"key" yaml:"key"`
	// Label is the header text.
	Label string `json:"label" yaml:"label"`
	// Type is the inferred or overridden semantic type.
	Type ColumnType `json:"type" yaml:"type"`
	// Align is derived from Type unless overridden.
	Align Alignment `json:"align" yaml:"align"`
	// Frozen pins the column during horizontal scroll.
	Frozen bool `json:"frozen,omitempty" yaml:"frozen,omitempty"`
	// Hidden columns are excluded from the view and exports.
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	// Width is the pixel width.
	Width float64 `json:"width" yaml:"width"`
	// MinWidth is the lower resize bound in pixels.
	MinWidth float64 `json:"min_width,omitempty" yaml:"min_width,omitempty"`
	// MaxWidth is the upper resize bound in pixels.
	MaxWidth float64 `json:"max_width,omitempty" yaml:"max_width,omitempty"`
}

// IsNumeric reports whether the column holds numbers.
func (c ColumnSpec) IsNumeric() bool { return c.Type == TypeNumber }

// Filterable reports whether a filter can be offered for the column.
func (c ColumnSpec) Filterable() bool { return c.Type != TypeNone }
