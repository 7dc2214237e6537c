package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

func TestPDFWriterPaginates(t *testing.T) {
	t.Parallel()
	tbl := sampleTable(150)

	var buf bytes.Buffer
	require.NoError(t, (&PDFWriter{Uncompressed: true}).Write(&buf, tbl))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Contains(t, out, "(Ledger)Tj")
	assert.Contains(t, out, "Page 1 of ")
	assert.Contains(t, out, "Page 2 of ")
	assert.NotContains(t, out, "{nb}")
	assert.Contains(t, out, "Generated 01 May 2024 09:30")
	assert.Contains(t, out, "(Total \\(150 rows\\))Tj")
	assert.GreaterOrEqual(t, strings.Count(out, "(Posted On)Tj"), 2, "header repeats on every page")
}

func TestPDFWriterOrientation(t *testing.T) {
	t.Parallel()
	narrow := sampleTable(1)
	_, o := (&PDFWriter{}).plan(narrow, "A4")
	assert.Equal(t, "P", o)

	wide := &Table{}
	for i := 0; i < 12; i++ {
		wide.Columns = append(wide.Columns, Column{Key: "k", Label: strings.Repeat("Wide header ", 2), Places: -1})
	}
	widths, o := (&PDFWriter{}).plan(wide, "A4")
	assert.Equal(t, "L", o)
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	assert.InDelta(t, 297-2*pdfMargin, sum, 0.01, "columns fill the landscape width")

	_, o = (&PDFWriter{Orientation: "P"}).plan(wide, "A4")
	assert.Equal(t, "P", o)
}

var fontSelect = regexp.MustCompile(`BT /F(\S+) [\d.]+ Tf ET`)

// lastFont returns the font selected last before s[:end].
func lastFont(s string, end int) string {
	m := fontSelect.FindAllStringSubmatch(s[:end], -1)
	if len(m) == 0 {
		return ""
	}
	return m[len(m)-1][1]
}

func TestPDFWriterTotalsBoldAfterPageBreak(t *testing.T) {
	t.Parallel()
	brokeBeforeTotals := false
	for n := 35; n <= 100; n++ {
		var buf bytes.Buffer
		require.NoError(t, (&PDFWriter{Uncompressed: true}).Write(&buf, sampleTable(n)))
		out := buf.String()

		header := strings.Index(out, "(Posted On)Tj")
		require.Positive(t, header)
		bold := lastFont(out, header)

		totals := strings.Index(out, fmt.Sprintf("(Total \\(%d rows\\))Tj", n))
		require.Positive(t, totals, "n=%d", n)
		assert.Equal(t, bold, lastFont(out, totals), "n=%d", n)

		lastHeader := strings.LastIndex(out[:totals], "(Posted On)Tj")
		if !strings.Contains(out[lastHeader:totals], "(Customer ") {
			brokeBeforeTotals = true
		}
	}
	assert.True(t, brokeBeforeTotals, "some row count puts the totals row at the top of a page")
}

func TestPDFFitKeepsSingleByteText(t *testing.T) {
	t.Parallel()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont(pdfFont, "", pdfBodySize)
	d := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	got := d.fit("Café Société Générale Zürich München", 20)
	assert.True(t, strings.HasPrefix(got, "Caf\xe9"), "%q", got)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.NotContains(t, got, "\uFFFD")
	assert.LessOrEqual(t, pdf.GetStringWidth(got), 18.0)

	short := d.fit("Zürich", 20)
	assert.Equal(t, "Z\xfcrich", short)
}

func TestPDFWriterLogo(t *testing.T) {
	t.Parallel()
	var logo bytes.Buffer
	require.NoError(t, png.Encode(&logo, image.NewGray(image.Rect(0, 0, 8, 4))))

	tbl := sampleTable(3)
	tbl.Meta.Logo = logo.Bytes()
	var buf bytes.Buffer
	require.NoError(t, (&PDFWriter{Uncompressed: true}).Write(&buf, tbl))
	assert.Contains(t, buf.String(), "/Subtype /Image")

	tbl.Meta.Logo = []byte("garbage")
	buf.Reset()
	require.NoError(t, (&PDFWriter{}).Write(&buf, tbl), "a bad logo is omitted, not fatal")
}

func TestPDFWriterStyledCells(t *testing.T) {
	t.Parallel()
	tbl := &Table{
		Title:   "Colors",
		Columns: []Column{{Key: "v", Label: "Value", Align: models.AlignRight, Places: -1}},
		Rows:    [][]models.Cell{{models.Styled(models.String("-5").Value, "#c00000")}},
	}
	var buf bytes.Buffer
	require.NoError(t, (&PDFWriter{Uncompressed: true}).Write(&buf, tbl))
	assert.Contains(t, buf.String(), "(-5)Tj")
}

func TestFontMetrics(t *testing.T) {
	t.Parallel()
	m := NewFontMetrics()
	var _ layout.TextMetrics = m
	small := m.Measure("Amount", layout.Font{Size: 8})
	big := m.Measure("Amount", layout.Font{Size: 16})
	bold := m.Measure("Amount", layout.Font{Size: 8, Bold: true})
	assert.Greater(t, small, 0.0)
	assert.InDelta(t, small*2, big, 1e-6)
	assert.Greater(t, bold, small)
}
