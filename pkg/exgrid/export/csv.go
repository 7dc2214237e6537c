package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes delimited text. Fields containing the delimiter, a quote
// or a line break are quoted and embedded quotes are doubled.
type CSVWriter struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// BOM prefixes the output with a UTF-8 byte order mark.
	BOM bool
}

// Format implements Writer.
func (w *CSVWriter) Format() Format { return FormatCSV }

// Write implements Writer.
func (w *CSVWriter) Write(out io.Writer, t *Table) error {
	if w.BOM {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("write bom: %w", err)
		}
	}
	cw := csv.NewWriter(out)
	if w.Delimiter != 0 {
		cw.Comma = w.Delimiter
	}

	record := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		record[i] = c.Label
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for n, row := range t.Rows {
		for i := range t.Columns {
			record[i] = ""
			if i < len(row) {
				record[i] = row[i].Unwrap().String()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", n+1, err)
		}
	}

	if t.Totals != nil {
		label := t.labelColumn()
		for i, c := range t.Columns {
			record[i] = ""
			if cell, ok := t.Totals.Cell(c.Key); ok {
				record[i] = cell.Unwrap().String()
			} else if i == label {
				record[i] = t.TotalsLabel()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
