package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Region is a 1-based inclusive cell range.
type Region struct {
	R1, C1, R2, C2 int
}

// String returns the range in A1 notation.
func (r Region) String() string {
	start, _ := excelize.CoordinatesToCellName(r.C1, r.R1)
	end, _ := excelize.CoordinatesToCellName(r.C2, r.R2)
	return fmt.Sprintf("%s:%s", start, end)
}

// intersect returns the overlap of r and o.
func (r Region) intersect(o Region) (Region, bool) {
	out := Region{
		R1: max(r.R1, o.R1), C1: max(r.C1, o.C1),
		R2: min(r.R2, o.R2), C2: min(r.C2, o.C2),
	}
	return out, out.R1 <= out.R2 && out.C1 <= out.C2
}

// RegionParams holds the thresholds a data region must meet.
type RegionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultRegionParams returns default region detection thresholds.
func DefaultRegionParams() RegionParams {
	return RegionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 2,
	}
}

// DetectRegion finds the bounding box of non-empty cells in rows, optionally
// restricted to within. It reports false when the box is too sparse.
func DetectRegion(rows [][]string, within *Region, params RegionParams) (Region, bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows, within)
	if minRow < 0 {
		return Region{}, false
	}

	total := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmpty := countNonEmptyCells(rows, minRow, maxRow, minCol, maxCol)
	if nonEmpty < params.MinNonemptyCells {
		return Region{}, false
	}
	if float64(nonEmpty)/float64(total) < params.DensityMin {
		return Region{}, false
	}
	return Region{R1: minRow + 1, C1: minCol + 1, R2: maxRow + 1, C2: maxCol + 1}, true
}

// findDataBounds finds the 0-based bounding box of non-empty cells.
func findDataBounds(rows [][]string, within *Region) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		if within != nil && (rowIdx+1 < within.R1 || rowIdx+1 > within.R2) {
			continue
		}
		for colIdx, cell := range row {
			if within != nil && (colIdx+1 < within.C1 || colIdx+1 > within.C2) {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}
	return
}

// countNonEmptyCells counts non-empty cells within 0-based bounds.
func countNonEmptyCells(rows [][]string, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if strings.TrimSpace(row[colIdx]) != "" {
				count++
			}
		}
	}
	return count
}

// PrintAreas returns the print areas defined in the workbook, by sheet.
func PrintAreas(f *excelize.File) map[string][]Region {
	result := make(map[string][]Region)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheet, areas := parsePrintAreaReference(dn.RefersTo)
		if sheet == "" {
			sheet = dn.Scope
		}
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses 'Sheet Name'!$A$1:$D$10 or Sheet1!$A$1:$D$10,
// with comma separated parts for multiple areas.
func parsePrintAreaReference(ref string) (string, []Region) {
	var (
		sheetName string
		areas     []Region
	)
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		if sheetName == "" {
			sheetName = strings.Trim(part[:idx], "'")
		}
		if area, ok := parseRange(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}
	return sheetName, areas
}

// parseRange parses a range such as $A$1:$D$10.
func parseRange(s string) (Region, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "$", ""), ":")
	if len(parts) != 2 {
		return Region{}, false
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Region{}, false
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Region{}, false
	}
	return Region{R1: r1, C1: c1, R2: r2, C2: c2}, true
}
