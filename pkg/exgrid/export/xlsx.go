package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/detect"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/format"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

const (
	defaultSheetName = "Report"
	headerFill       = "D9E1F2"
	totalsFill       = "F2F2F2"
	totalsNumFmt     = "#,##0.00"
	logoRowHeight    = 48 // points
)

// XLSXWriter writes a workbook with native numeric and date cells so the
// result stays sortable and filterable in a spreadsheet application.
type XLSXWriter struct {
	// SheetName defaults to "Report".
	SheetName string
	Logger    zerolog.Logger
}

// Format implements Writer.
func (w *XLSXWriter) Format() Format { return FormatXLSX }

type styleKey struct {
	align  models.Alignment
	numFmt string
	color  string
	bold   bool
	size   float64
	fill   string
}

type xlsxDoc struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
}

func (d *xlsxDoc) style(k styleKey) (int, error) {
	if id, ok := d.styles[k]; ok {
		return id, nil
	}
	st := &excelize.Style{Alignment: &excelize.Alignment{Vertical: "center"}}
	if k.align != "" {
		st.Alignment.Horizontal = string(k.align)
	}
	if k.numFmt != "" {
		nf := k.numFmt
		st.CustomNumFmt = &nf
	}
	if k.color != "" || k.bold || k.size > 0 {
		st.Font = &excelize.Font{Bold: k.bold, Color: k.color, Size: k.size}
	}
	if k.fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{k.fill}}
	}
	id, err := d.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	d.styles[k] = id
	return id, nil
}

func (d *xlsxDoc) set(col, row int, v any, k styleKey) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if v != nil {
		if err := d.f.SetCellValue(d.sheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	if k == (styleKey{}) {
		return nil
	}
	id, err := d.style(k)
	if err != nil {
		return err
	}
	return d.f.SetCellStyle(d.sheet, cell, cell, id)
}

// Write implements Writer.
func (w *XLSXWriter) Write(out io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.Logger.Warn().Err(err).Msg("close workbook")
		}
	}()

	sheet := w.SheetName
	if sheet == "" {
		sheet = defaultSheetName
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	d := &xlsxDoc{f: f, sheet: sheet, styles: make(map[styleKey]int)}
	ncols := max(len(t.Columns), 1)

	row := 1
	if len(t.Meta.Logo) > 0 {
		if w.addLogo(d, t.Meta.Logo) {
			row++
		}
	}
	if t.Title != "" {
		if err := d.set(1, row, t.Title, styleKey{bold: true, size: 14}); err != nil {
			return err
		}
		if err := w.merge(d, row, ncols); err != nil {
			return err
		}
		row++
	}
	if sub := t.Meta.Subtitle(); sub != "" {
		if err := d.set(1, row, sub, styleKey{}); err != nil {
			return err
		}
		if err := w.merge(d, row, ncols); err != nil {
			return err
		}
		row++
	}
	if row > 1 {
		row++
	}

	headerRow := row
	for i, c := range t.Columns {
		if err := d.set(i+1, row, c.Label, styleKey{align: c.Align, bold: true, fill: headerFill}); err != nil {
			return err
		}
	}
	row++

	for _, cells := range t.Rows {
		for i, c := range t.Columns {
			if i >= len(cells) {
				break
			}
			v, numFmt := cellValue(c, cells[i])
			k := styleKey{align: c.Align, numFmt: numFmt, color: cells[i].Color()}
			if err := d.set(i+1, row, v, k); err != nil {
				return err
			}
		}
		row++
	}
	lastDataRow := row - 1

	if t.Totals != nil {
		label := t.labelColumn()
		for i, c := range t.Columns {
			k := styleKey{align: c.Align, bold: true, fill: totalsFill}
			var v any
			if cell, ok := t.Totals.Cell(c.Key); ok {
				k.color = cell.Color()
				if n, ok := detect.ParseNumber(cell.Text()); ok {
					v, k.numFmt = n, totalsNumFmt
				} else {
					v = cell.Text()
				}
			} else if i == label {
				v = t.TotalsLabel()
			}
			if err := d.set(i+1, row, v, k); err != nil {
				return err
			}
		}
	}

	for i, c := range t.Columns {
		if c.Width <= 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, layout.ExcelWidth(c.Width)); err != nil {
			return fmt.Errorf("set width of %s: %w", name, err)
		}
	}

	if err := w.freeze(d, t.frozenColumns(), headerRow); err != nil {
		return err
	}
	if len(t.Columns) > 0 && lastDataRow > headerRow {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), lastDataRow)
		if err := f.AutoFilter(sheet, first+":"+last, nil); err != nil {
			return fmt.Errorf("set autofilter: %w", err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// addLogo embeds the logo in A1. Conversion failures are logged and the logo
// is omitted.
func (w *XLSXWriter) addLogo(d *xlsxDoc, data []byte) bool {
	logo, err := PrepareLogo(data)
	if err != nil {
		w.Logger.Warn().Err(err).Msg("logo omitted from workbook")
		return false
	}
	scale := 1.0
	if px := float64(logoRowHeight) * 4 / 3; logo.Height > 0 && float64(logo.Height) > px {
		scale = px / float64(logo.Height)
	}
	pic := &excelize.Picture{
		Extension: logo.Ext,
		File:      logo.Data,
		Format:    &excelize.GraphicOptions{ScaleX: scale, ScaleY: scale, OffsetX: 2, OffsetY: 2, LockAspectRatio: true},
	}
	if err := d.f.AddPictureFromBytes(d.sheet, "A1", pic); err != nil {
		w.Logger.Warn().Err(err).Msg("logo omitted from workbook")
		return false
	}
	if err := d.f.SetRowHeight(d.sheet, 1, logoRowHeight); err != nil {
		w.Logger.Warn().Err(err).Msg("set logo row height")
	}
	return true
}

func (w *XLSXWriter) merge(d *xlsxDoc, row, ncols int) error {
	if ncols < 2 {
		return nil
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(ncols, row)
	return d.f.MergeCell(d.sheet, first, last)
}

func (w *XLSXWriter) freeze(d *xlsxDoc, cols, headerRow int) error {
	topLeft, err := excelize.CoordinatesToCellName(cols+1, headerRow+1)
	if err != nil {
		return err
	}
	pane := "bottomLeft"
	if cols > 0 {
		pane = "bottomRight"
	}
	return d.f.SetPanes(d.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      cols,
		YSplit:      headerRow,
		TopLeftCell: topLeft,
		ActivePane:  pane,
	})
}

// cellValue converts a display cell back to a native spreadsheet value with
// the number format that reproduces its display. Values that do not parse
// are written as text.
func cellValue(c Column, cell models.Cell) (any, string) {
	v := cell.Unwrap()
	text := strings.TrimSpace(v.String())
	if text == "" {
		return nil, ""
	}
	switch {
	case c.IsDate():
		if t, ok := parseRendered(c.DateFormat, text); ok {
			return t, format.SpreadsheetFormat(c.DateFormat)
		}
	case c.IsNumeric():
		n, ok := v.Num, v.Kind == models.KindNumber
		if !ok {
			n, ok = detect.ParseNumber(text)
		}
		if ok {
			return n, numberFormat(c.Places)
		}
	}
	return v.String(), ""
}

func parseRendered(tokens, text string) (time.Time, bool) {
	if t, err := time.Parse(format.GoLayout(tokens), text); err == nil {
		return t, true
	}
	return format.ParseDateValue(text)
}

func numberFormat(places int) string {
	switch {
	case places < 0:
		return ""
	case places == 0:
		return "#,##0"
	default:
		return "#,##0." + strings.Repeat("0", places)
	}
}
