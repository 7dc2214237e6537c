// Package models defines the data structures shared by the grid pipeline.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Kind identifies the scalar type held by a Cell.
type Kind uint8

const (
	// KindNull is an absent or null value.
	KindNull Kind = iota
	// KindString is a string value.
	KindString
	// KindNumber is a numeric value.
	KindNumber
)

// Scalar is a plain cell value.
type Scalar struct {
	// Kind is the scalar type.
	Kind Kind
	// Str holds the value when Kind is KindString.
	Str string
	// Num holds the value when Kind is KindNumber.
	Num float64
}

// String renders the scalar as text. Null renders as the empty string.
func (s Scalar) String() string {
	switch s.Kind {
	case KindString:
		return s.Str
	case KindNumber:
		return strconv.FormatFloat(s.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// IsEmpty reports whether the scalar is null or blank text.
func (s Scalar) IsEmpty() bool {
	return strings.TrimSpace(s.String()) == ""
}

// Style is the presentation hint carried by a styled cell.
type Style struct {
	// Color is the foreground color as "#rrggbb".
	Color string `json:"color,omitempty"`
}

// Cell is either a plain scalar or a styled scalar (scalar + presentation hint).
// Comparison and serialization always go through Unwrap.
type Cell struct {
	// Value is the underlying scalar.
	Value Scalar
	// Style is nil for plain cells.
	Style *Style
}

// Null returns a plain null cell.
func Null() Cell { return Cell{} }

// String returns a plain string cell.
func String(s string) Cell { return Cell{Value: Scalar{Kind: KindString, Str: s}} }

// Number returns a plain numeric cell.
func Number(f float64) Cell { return Cell{Value: Scalar{Kind: KindNumber, Num: f}} }

// Plain wraps a scalar without presentation.
func Plain(s Scalar) Cell { return Cell{Value: s} }

// Styled wraps a scalar with a foreground color.
func Styled(s Scalar, color string) Cell {
	return Cell{Value: s, Style: &Style{Color: color}}
}

// Unwrap returns the underlying plain scalar.
func (c Cell) Unwrap() Scalar { return c.Value }

// IsStyled reports whether the cell carries a presentation hint.
func (c Cell) IsStyled() bool { return c.Style != nil }

// Color returns the presentation color, or "" for plain cells.
func (c Cell) Color() string {
	if c.Style == nil {
		return ""
	}
	return c.Style.Color
}

// Text is the trimmed string form of the unwrapped value.
func (c Cell) Text() string {
	return strings.TrimSpace(c.Value.String())
}

// WithValue keeps the presentation hint and replaces the scalar.
func (c Cell) WithValue(s Scalar) Cell {
	c.Value = s
	return c
}

// MarshalJSON encodes plain cells as JSON scalars and styled cells as
// {"value": ..., "color": ...}.
func (c Cell) MarshalJSON() ([]byte, error) {
	var v any
	switch c.Value.Kind {
	case KindString:
		v = c.Value.Str
	case KindNumber:
		v = c.Value.Num
	}
	if c.Style != nil {
		return json.Marshal(struct {
			Value any    `json:"value"`
			Color string `json:"color,omitempty"`
		}{v, c.Style.Color})
	}
	return json.Marshal(v)
}

// UnmarshalJSON accepts scalars, booleans (kept as text) and styled objects.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = cellFromAny(v)
	return nil
}

func cellFromAny(v any) Cell {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case float64:
		return Number(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	case bool:
		return String(strconv.FormatBool(t))
	case map[string]any:
		if inner, ok := t["value"]; ok {
			cell := cellFromAny(inner)
			if color, ok := t["color"].(string); ok && color != "" {
				cell.Style = &Style{Color: color}
			}
			return cell
		}
	}
	return String(fmt.Sprint(v))
}

// CellOf converts a loosely-typed Go value into a plain Cell.
func CellOf(v any) Cell {
	switch t := v.(type) {
	case Cell:
		return t
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	}
	return cellFromAny(v)
}
