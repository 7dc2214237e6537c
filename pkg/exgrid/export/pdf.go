package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/ukaji3/exgrid-go/pkg/exgrid/format"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/layout"
	"github.com/ukaji3/exgrid-go/pkg/exgrid/models"
)

const (
	pdfFont       = "Helvetica"
	pdfMargin     = 10.0
	pdfBreak      = 15.0
	pdfRowHeight  = 6.0
	pdfBodySize   = 8.0
	pdfTitleSize  = 14.0
	pdfLogoHeight = 14.0
	pdfTimeLayout = "02 Jan 2006 15:04"
)

// PDFWriter writes a paginated document: logo, title, optional client and
// period line, the table with its header repeated on every page, a totals
// row and a running footer with the generation time and page numbers.
type PDFWriter struct {
	// PageSize is an fpdf size name such as "A4" or "Letter". Default "A4".
	PageSize string
	// Orientation forces "P" or "L". Empty picks landscape when the table
	// does not fit portrait width.
	Orientation string
	// Uncompressed disables stream compression.
	Uncompressed bool
	Logger       zerolog.Logger
}

// Format implements Writer.
func (w *PDFWriter) Format() Format { return FormatPDF }

// FontMetrics measures text with fpdf's core font metrics, in millimetres.
type FontMetrics struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewFontMetrics returns metrics backed by a scratch document.
func NewFontMetrics() *FontMetrics {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &FontMetrics{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Measure implements layout.TextMetrics.
func (m *FontMetrics) Measure(text string, font layout.Font) float64 {
	style := ""
	if font.Bold {
		style = "B"
	}
	family := font.Family
	if family == "" {
		family = pdfFont
	}
	m.pdf.SetFont(family, style, font.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// plan computes column widths in millimetres and the page orientation.
func (w *PDFWriter) plan(t *Table, size string) ([]float64, string) {
	engine := &layout.Engine{
		Metrics:         NewFontMetrics(),
		HeaderFont:      layout.Font{Family: pdfFont, Size: pdfBodySize, Bold: true},
		BodyFont:        layout.Font{Family: pdfFont, Size: pdfBodySize},
		Min:             12,
		Max:             70,
		HeaderAllowance: 2,
		Padding:         3,
		SampleRows:      layout.DefaultSampleRows,
	}
	natural := make([]float64, len(t.Columns))
	total := 0.0
	for i, c := range t.Columns {
		values := make([]string, 0, min(len(t.Rows), layout.DefaultSampleRows))
		for _, r := range t.Rows {
			if len(values) == layout.DefaultSampleRows {
				break
			}
			if i < len(r) {
				values = append(values, r[i].Text())
			}
		}
		natural[i] = engine.Width(c.Label, values)
		total += natural[i]
	}

	orientation := w.Orientation
	sizer := fpdf.New("P", "mm", size, "")
	pw, ph := sizer.GetPageSize()
	if orientation == "" {
		orientation = "P"
		if total > pw-2*pdfMargin {
			orientation = "L"
		}
	}
	usable := pw - 2*pdfMargin
	if orientation == "L" {
		usable = ph - 2*pdfMargin
	}
	if total > 0 {
		scale := usable / total
		for i := range natural {
			natural[i] *= scale
		}
	}
	return natural, orientation
}

type pdfDoc struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	t      *Table
	widths []float64
}

// Write implements Writer.
func (w *PDFWriter) Write(out io.Writer, t *Table) error {
	size := w.PageSize
	if size == "" {
		size = "A4"
	}
	widths, orientation := w.plan(t, size)

	pdf := fpdf.New(orientation, "mm", size, "")
	pdf.SetCompression(!w.Uncompressed)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBreak)
	pdf.AliasNbPages("")
	generated := t.Meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetCreationDate(generated)
	d := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), t: t, widths: widths}
	if t.Title != "" {
		pdf.SetTitle(t.Title, true)
	}

	inTable := false
	pdf.SetHeaderFunc(func() {
		if inTable {
			d.header()
		}
	})
	stamp := generated.Format(pdfTimeLayout)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "I", 7)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, d.tr(fmt.Sprintf("Generated %s · Page %d of {nb}", stamp, pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	w.banner(d)
	d.header()
	inTable = true

	pdf.SetFont(pdfFont, "", pdfBodySize)
	for i, cells := range t.Rows {
		fill := i%2 == 1
		for j, c := range t.Columns {
			var cell models.Cell
			if j < len(cells) {
				cell = cells[j]
			}
			d.cell(j, cell.Text(), c.Align, cell.Color(), fill)
		}
		pdf.Ln(pdfRowHeight)
	}

	if t.Totals != nil {
		// Break before the row so the header callback cannot reset its style.
		if _, pageH := pdf.GetPageSize(); pdf.GetY()+pdfRowHeight > pageH-pdfBreak {
			pdf.AddPage()
		}
		pdf.SetFont(pdfFont, "B", pdfBodySize)
		pdf.SetFillColor(230, 230, 230)
		label := t.labelColumn()
		for j, c := range t.Columns {
			text, color := "", ""
			if cell, ok := t.Totals.Cell(c.Key); ok {
				text, color = cell.Text(), cell.Color()
			} else if j == label {
				text = t.TotalsLabel()
			}
			d.cell(j, text, c.Align, color, true)
		}
		pdf.Ln(pdfRowHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	_, err := out.Write(buf.Bytes())
	return err
}

// banner draws the logo, title and subtitle block on the first page.
func (w *PDFWriter) banner(d *pdfDoc) {
	pdf := d.pdf
	if len(d.t.Meta.Logo) > 0 {
		if logo, err := PrepareLogo(d.t.Meta.Logo); err != nil {
			w.Logger.Warn().Err(err).Msg("logo omitted from document")
		} else {
			opts := fpdf.ImageOptions{ImageType: logo.ImageType()}
			pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
			if pdf.Ok() {
				pdf.ImageOptions("logo", pdfMargin, pdfMargin, 0, pdfLogoHeight, true, opts, 0, "")
			} else {
				w.Logger.Warn().Err(pdf.Error()).Msg("logo omitted from document")
				pdf.ClearError()
			}
		}
	}
	if d.t.Title != "" {
		pdf.SetFont(pdfFont, "B", pdfTitleSize)
		pdf.CellFormat(0, 8, d.tr(d.t.Title), "", 1, "L", false, 0, "")
	}
	if sub := d.t.Meta.Subtitle(); sub != "" {
		pdf.SetFont(pdfFont, "", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(0, 5, d.tr(sub), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(3)
}

// header draws the table header row.
func (d *pdfDoc) header() {
	pdf := d.pdf
	pdf.SetFont(pdfFont, "B", pdfBodySize)
	pdf.SetFillColor(217, 225, 242)
	pdf.SetTextColor(0, 0, 0)
	for i, c := range d.t.Columns {
		d.cell(i, c.Label, c.Align, "", true)
	}
	pdf.Ln(pdfRowHeight)
	pdf.SetFont(pdfFont, "", pdfBodySize)
	pdf.SetFillColor(247, 247, 247)
}

func (d *pdfDoc) cell(i int, text string, align models.Alignment, color string, fill bool) {
	pdf := d.pdf
	a := "L"
	if align == models.AlignRight {
		a = "R"
	}
	if c, ok := format.ParseColor(color); ok {
		r, g, b := c.RGB255()
		pdf.SetTextColor(int(r), int(g), int(b))
		defer pdf.SetTextColor(0, 0, 0)
	}
	pdf.CellFormat(d.widths[i], pdfRowHeight, d.fit(text, d.widths[i]), "1", 0, a, fill, 0, "")
}

// fit translates text to the single-byte font encoding and truncates it to
// the cell width.
func (d *pdfDoc) fit(text string, width float64) string {
	s := d.tr(text)
	avail := width - 2
	if d.pdf.GetStringWidth(s) <= avail {
		return s
	}
	n := len(s)
	for n > 0 && d.pdf.GetStringWidth(s[:n]+"...") > avail {
		n--
	}
	return s[:n] + "..."
}
