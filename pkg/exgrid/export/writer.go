package export

import (
	"io"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Writer encodes a table into one document format.
type Writer interface {
	Format() Format
	Write(w io.Writer, t *Table) error
}

// NewWriter returns the default writer for f.
func NewWriter(f Format, log zerolog.Logger) (Writer, error) {
	switch f {
	case FormatCSV:
		return &CSVWriter{}, nil
	case FormatXLSX:
		return &XLSXWriter{Logger: log}, nil
	case FormatPDF:
		return &PDFWriter{Logger: log}, nil
	}
	_, err := ParseFormat(string(f))
	return nil, err
}

// FileName builds a download name from a report name.
func FileName(report string, f Format) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(report))
	name = strings.Trim(name, "_")
	if name == "" {
		name = "report"
	}
	return name + f.Ext()
}
