package models

// SummaryRow is the synthetic totals row. It is keyed like data rows but only
// holds the aggregate columns, and it never joins the filterable row set.
type SummaryRow struct {
	// Cells maps aggregate column key to the formatted total.
	Cells map[string]Cell `json:"cells"`
	// Count is the number of rows aggregated.
	Count int `json:"count"`
}

// Cell returns the total for key and whether the column is aggregated.
func (s *SummaryRow) Cell(key string) (Cell, bool) {
	if s == nil {
		return Cell{}, false
	}
	c, ok := s.Cells[key]
	return c, ok
}
