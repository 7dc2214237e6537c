// Package export writes a formatted row set to CSV, XLSX and PDF documents.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// Column is one exported column.
type Column struct {
	Key   string
	Label string
	Type  models.ColumnType
	Align models.Alignment
	// Width is the display width in pixels; zero lets the writer decide.
	Width  float64
	Frozen bool
	// Places is the configured decimal precision, or -1.
	Places int
	// DateFormat is the token layout date values were rendered with.
	DateFormat string
	// Total marks columns carried by the totals row.
	Total bool
}

// IsDate reports whether the column holds rendered dates.
func (c Column) IsDate() bool { return c.DateFormat != "" }

// IsNumeric reports whether the column is written as native numbers.
func (c Column) IsNumeric() bool { return c.Type == models.TypeNumber || c.Places >= 0 }

// Meta is document-level context.
type Meta struct {
	Client      string
	DateFrom    string
	DateTo      string
	GeneratedAt time.Time
	// Logo is PNG, JPEG or BMP image data.
	Logo []byte
}

// Subtitle renders the client and date range line, or "".
func (m Meta) Subtitle() string {
	var parts []string
	if m.Client != "" {
		parts = append(parts, "Client: "+m.Client)
	}
	switch {
	case m.DateFrom != "" && m.DateTo != "":
		parts = append(parts, fmt.Sprintf("Period: %s to %s", m.DateFrom, m.DateTo))
	case m.DateFrom != "":
		parts = append(parts, "From: "+m.DateFrom)
	case m.DateTo != "":
		parts = append(parts, "Until: "+m.DateTo)
	}
	return strings.Join(parts, " · ")
}

// Table is the normalized writer input: visible columns, formatted rows and
// the totals row.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]models.Cell
	Totals  *models.SummaryRow
	Meta    Meta
}

// NewTable projects rows onto the visible columns. Hidden and internal
// columns are dropped, and the totals row keeps only visible columns.
func NewTable(title string, specs []models.ColumnSpec, rows []models.Row, totals *models.SummaryRow, rules models.FormattingRules) *Table {
	t := &Table{Title: title}
	for _, s := range specs {
		if s.Hidden || rules.IsHidden(s.Key) || models.IsInternal(s.Key) {
			continue
		}
		col := Column{
			Key:    s.Key,
			Label:  s.Label,
			Type:   s.Type,
			Align:  s.Align,
			Width:  s.Width,
			Frozen: s.Frozen,
			Places: -1,
			Total:  rules.IsTotal(s.Key),
		}
		if col.Label == "" {
			col.Label = s.Key
		}
		if p, ok := rules.Places(s.Key); ok {
			col.Places = p
		}
		if rules.IsDate(s.Key) {
			col.DateFormat = rules.DateFormat
			if col.DateFormat == "" {
				col.DateFormat = "DD-MM-YYYY"
			}
		}
		t.Columns = append(t.Columns, col)
	}

	t.Rows = make([][]models.Cell, len(rows))
	for i, r := range rows {
		line := make([]models.Cell, len(t.Columns))
		for j, col := range t.Columns {
			line[j] = r.Cell(col.Key)
		}
		t.Rows[i] = line
	}

	if totals != nil {
		t.Totals = &models.SummaryRow{Cells: make(map[string]models.Cell), Count: totals.Count}
		for i, col := range t.Columns {
			if c, ok := totals.Cell(col.Key); ok {
				t.Totals.Cells[col.Key] = c
				t.Columns[i].Total = true
			}
		}
	}
	return t
}

// Clone returns a deep copy so each writer invocation owns its input.
func (t *Table) Clone() (*Table, error) {
	var out Table
	if err := deepcopy.Copy(&out, t); err != nil {
		return nil, fmt.Errorf("copy export table: %w", err)
	}
	return &out, nil
}

// TotalsLabel is the caption placed in the totals row.
func (t *Table) TotalsLabel() string {
	if t.Totals == nil {
		return ""
	}
	return fmt.Sprintf("Total (%d rows)", t.Totals.Count)
}

// labelColumn is the first column without a total, or -1.
func (t *Table) labelColumn() int {
	for i, c := range t.Columns {
		if !c.Total {
			return i
		}
	}
	return -1
}

// frozenColumns counts the leading frozen columns.
func (t *Table) frozenColumns() int {
	n := 0
	for _, c := range t.Columns {
		if !c.Frozen {
			break
		}
		n++
	}
	return n
}
