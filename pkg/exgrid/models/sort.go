package models

// Direction is a sort direction.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "asc"
	// Desc sorts descending.
	Desc Direction = "desc"
)

// SortKey is one (column, direction) pair.
type SortKey struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// SortSpec is an ordered multi-key sort, evaluated left to right.
// An empty spec keeps input order.
type SortSpec []SortKey

// Toggle cycles the column through asc, desc and removed, returning a new spec.
// A column that is not yet sorted is appended ascending.
func (s SortSpec) Toggle(column string) SortSpec {
	out := make(SortSpec, 0, len(s)+1)
	found := false
	for _, k := range s {
		if k.Column != column {
			out = append(out, k)
			continue
		}
		found = true
		if k.Direction != Desc {
			out = append(out, SortKey{Column: column, Direction: Desc})
		}
	}
	if !found {
		out = append(out, SortKey{Column: column, Direction: Asc})
	}
	return out
}

// Direction returns the direction for column, or "" when it is not sorted.
func (s SortSpec) Direction(column string) Direction {
	for _, k := range s {
		if k.Column == column {
			return k.Direction
		}
	}
	return ""
}
