package export

import (
	"fmt"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	// FormatCSV is delimited text.
	FormatCSV Format = "csv"
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX Format = "xlsx"
	// FormatPDF is a paginated document.
	FormatPDF Format = "pdf"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Limits are the per-format row ceilings. Zero means unlimited.
type Limits struct {
	PDF  int `koanf:"pdf" json:"pdf"`
	XLSX int `koanf:"xlsx" json:"xlsx"`
	CSV  int `koanf:"csv" json:"csv"`
}

// DefaultLimits keep document assembly within interactive time and memory.
var DefaultLimits = Limits{PDF: 8000, XLSX: 100000}

// For returns the ceiling for format f.
func (l Limits) For(f Format) int {
	switch f {
	case FormatPDF:
		return l.PDF
	case FormatXLSX:
		return l.XLSX
	case FormatCSV:
		return l.CSV
	}
	return 0
}

// CheckCapacity rejects rows above the format's ceiling with a *CapacityError.
func (l Limits) CheckCapacity(f Format, rows int) error {
	limit := l.For(f)
	if limit > 0 && rows > limit {
		return &CapacityError{Format: f, Rows: rows, Limit: limit}
	}
	return nil
}
