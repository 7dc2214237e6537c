package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

func TestReadJSONKeepsKeyOrder(t *testing.T) {
	t.Parallel()
	rows, err := ReadJSON(strings.NewReader(`[
		{"Name": "Alice", "Amount": 1200.5, "_id": "r1"},
		{"Amount": {"value": -3, "color": "#c00000"}, "Name": null}
	]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Amount", "_id"}, rows[0].Keys())
	assert.Equal(t, []string{"Name", "Amount"}, rows[0].DataKeys())
	assert.Equal(t, models.KindNumber, rows[0].Cell("Amount").Unwrap().Kind)
	assert.Equal(t, []string{"Amount", "Name"}, rows[1].Keys())
	assert.True(t, rows[1].Cell("Amount").IsStyled())
}

func TestReadJSONInvalid(t *testing.T) {
	t.Parallel()
	_, err := ReadJSON(strings.NewReader(`{"Name": "not an array"}`))
	assert.Error(t, err)
}

func workbook(t *testing.T, fill func(f *excelize.File)) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()
	buf := workbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetSheetRow("Sheet1", "B3", &[]any{"Name", "Amount", "Invoice Date"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "B4", &[]any{"Alice", 1200.5, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}))
		require.NoError(t, f.SetSheetRow("Sheet1", "B6", &[]any{"Bob", nil, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)}))
		require.NoError(t, f.SetCellValue("Sheet1", "C7", 300))
	})

	rows, err := ReadXLSX(buf, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Name", "Amount", "Invoice Date"}, rows[0].Keys())
	assert.Equal(t, "Alice", rows[0].Cell("Name").Text())
	assert.Equal(t, models.KindNumber, rows[0].Cell("Amount").Unwrap().Kind)
	assert.Equal(t, 1200.5, rows[0].Cell("Amount").Unwrap().Num)
	assert.Equal(t, "2024-04-01", rows[0].Cell("Invoice Date").Text())

	assert.Equal(t, "Bob", rows[1].Cell("Name").Text())
	assert.True(t, rows[1].Cell("Amount").Unwrap().IsEmpty())
	assert.Equal(t, "2024-04-02", rows[1].Cell("Invoice Date").Text())

	assert.Equal(t, 300.0, rows[2].Cell("Amount").Unwrap().Num)
}

func TestReadXLSXPrintArea(t *testing.T) {
	t.Parallel()
	buf := workbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Code", "Qty", "Notes"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"X1", 2, "outside"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"X2", 5, "outside"}))
		require.NoError(t, f.SetCellValue("Sheet1", "A10", "footer"))
		require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
			Name:     "_xlnm.Print_Area",
			RefersTo: "Sheet1!$A$1:$B$3",
			Scope:    "Sheet1",
		}))
	})
	data := buf.Bytes()

	rows, err := ReadXLSX(bytes.NewReader(data), XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Code", "Qty"}, rows[0].Keys())

	all, err := ReadXLSX(bytes.NewReader(data), XLSXOptions{IgnorePrintArea: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Code", "Qty", "Notes"}, all[0].Keys())
	assert.Len(t, all, 3)
	assert.Equal(t, "footer", all[2].Cell("Code").Text())
}

func TestReadXLSXSheetSelection(t *testing.T) {
	t.Parallel()
	buf := workbook(t, func(f *excelize.File) {
		_, err := f.NewSheet("Data")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Data", "A1", &[]any{"K", "V"}))
		require.NoError(t, f.SetSheetRow("Data", "A2", &[]any{"a", 1}))
	})
	data := buf.Bytes()

	rows, err := ReadXLSX(bytes.NewReader(data), XLSXOptions{Sheet: "Data"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Cell("K").Text())

	rows, err = ReadXLSX(bytes.NewReader(data), XLSXOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = ReadXLSX(bytes.NewReader(data), XLSXOptions{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestHeaderKeys(t *testing.T) {
	t.Parallel()
	raw := [][]string{{"Name", "", "Name", "_id"}}
	got := headerKeys(raw, Region{R1: 1, C1: 1, R2: 1, C2: 5})
	assert.Equal(t, []string{"Name", "B", "Name (2)", "id", "E"}, got)
}

func TestDetectRegion(t *testing.T) {
	t.Parallel()
	raw := [][]string{
		{},
		{"", "a", "b"},
		{"", "1", ""},
	}
	r, ok := DetectRegion(raw, nil, DefaultRegionParams())
	require.True(t, ok)
	assert.Equal(t, Region{R1: 2, C1: 2, R2: 3, C2: 3}, r)
	assert.Equal(t, "B2:C3", r.String())

	_, ok = DetectRegion([][]string{{"only"}}, nil, DefaultRegionParams())
	assert.False(t, ok)

	_, ok = DetectRegion(raw, &Region{R1: 5, C1: 1, R2: 9, C2: 9}, DefaultRegionParams())
	assert.False(t, ok)
}

func TestParsePrintAreaReference(t *testing.T) {
	t.Parallel()
	sheet, areas := parsePrintAreaReference("'My Sheet'!$A$1:$D$10,'My Sheet'!$F$2:$G$4")
	assert.Equal(t, "My Sheet", sheet)
	assert.Equal(t, []Region{{R1: 1, C1: 1, R2: 10, C2: 4}, {R1: 2, C1: 6, R2: 4, C2: 7}}, areas)

	sheet, areas = parsePrintAreaReference("Sheet1!A1")
	assert.Equal(t, "Sheet1", sheet)
	assert.Empty(t, areas)
}

func TestIsDateFormat(t *testing.T) {
	t.Parallel()
	code := func(s string) *string { return &s }
	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(4, nil))
	assert.True(t, isDateFormat(0, code("dd-mm-yyyy")))
	assert.False(t, isDateFormat(0, code("#,##0.00")))
	assert.False(t, isDateFormat(0, code(`0.0 "days"`)))
	assert.False(t, isDateFormat(0, code("[Red]0.00")))
}

func TestParseValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected any
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseValue(tt.input), tt.input)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"A": 1}]`), 0o644))
	rows, err := ReadFile(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	other := filepath.Join(dir, "rows.txt")
	require.NoError(t, os.WriteFile(other, []byte("A\n1"), 0o644))
	_, err = ReadFile(other, XLSXOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}
