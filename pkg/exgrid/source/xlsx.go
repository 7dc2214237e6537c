package source

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

// dateLayout is how worksheet dates are rendered into rows.
const dateLayout = "2006-01-02"

// XLSXOptions selects what part of a workbook is read.
type XLSXOptions struct {
	// Sheet defaults to the first sheet.
	Sheet string
	// IgnorePrintArea reads the whole sheet even when a print area is defined.
	IgnorePrintArea bool
	// Region overrides the detection thresholds.
	Region *RegionParams
}

// ReadXLSX reads rows from a workbook. The first row of the sheet's data
// region is the header; every later non-empty row becomes a Row keyed by
// header text. Date-formatted cells become YYYY-MM-DD strings.
func ReadXLSX(r io.Reader, opts XLSXOptions) ([]models.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, opts)
}

func readSheet(f *excelize.File, opts XLSXOptions) ([]models.Row, error) {
	sheet := opts.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, nil
		}
		sheet = list[0]
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var within *Region
	if !opts.IgnorePrintArea {
		if areas := PrintAreas(f)[sheet]; len(areas) > 0 {
			within = &areas[0]
		}
	}
	params := DefaultRegionParams()
	if opts.Region != nil {
		params = *opts.Region
	}
	region, ok := DetectRegion(raw, within, params)
	if !ok {
		return nil, nil
	}

	headers := headerKeys(raw, region)
	dates := newDateStyles(f)
	var out []models.Row
	for rowNum := region.R1 + 1; rowNum <= region.R2; rowNum++ {
		line := raw[rowNum-1]
		var row models.Row
		hasData := false
		for i, key := range headers {
			col := region.C1 + i
			value := ""
			if col-1 < len(line) {
				value = line[col-1]
			}
			if value == "" {
				row.Set(key, models.Null())
				continue
			}
			hasData = true
			if dates.is(sheet, col, rowNum) {
				if t, err := excelize.ExcelDateToTime(mustFloat(value), false); err == nil {
					row.Set(key, models.String(t.Format(dateLayout)))
					continue
				}
			}
			row.Set(key, models.CellOf(parseValue(value)))
		}
		if hasData {
			out = append(out, row)
		}
	}
	return out, nil
}

// headerKeys names the region's columns from its first row. Blank headers
// become the column letter and repeated headers get a numeric suffix.
func headerKeys(raw [][]string, region Region) []string {
	var first []string
	if region.R1-1 < len(raw) {
		first = raw[region.R1-1]
	}
	seen := make(map[string]int)
	keys := make([]string, 0, region.C2-region.C1+1)
	for col := region.C1; col <= region.C2; col++ {
		name := ""
		if col-1 < len(first) {
			name = strings.TrimSpace(first[col-1])
		}
		if name == "" {
			name, _ = excelize.ColumnNumberToName(col)
		}
		// Keys starting with the internal prefix would be dropped downstream.
		name = strings.TrimLeft(name, models.InternalPrefix)
		if name == "" {
			name, _ = excelize.ColumnNumberToName(col)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		keys = append(keys, name)
	}
	return keys
}

// parseValue returns int64 for integers, float64 for decimals, or s.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	return f
}

// Built-in number formats that render dates.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 57: true, 58: true,
}

var (
	quotedOrBracketed = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)
	dateTokens        = regexp.MustCompile(`(?i)[yd]`)
)

// dateStyles caches whether a style index renders dates.
type dateStyles struct {
	f     *excelize.File
	cache map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	return &dateStyles{f: f, cache: make(map[int]bool)}
}

func (d *dateStyles) is(sheet string, col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	idx, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.cache[idx]; ok {
		return v
	}
	v := false
	if style, err := d.f.GetStyle(idx); err == nil && style != nil {
		v = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	d.cache[idx] = v
	return v
}

// isDateFormat reports whether a number format renders a calendar date.
func isDateFormat(id int, custom *string) bool {
	if custom != nil {
		code := quotedOrBracketed.ReplaceAllString(*custom, "")
		return dateTokens.MatchString(code)
	}
	return builtinDateFormats[id]
}
