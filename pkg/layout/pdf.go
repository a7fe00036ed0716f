package layout

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// RenderPDF draws doc with the PDF core fonts. Text is converted to cp1252 so
// Spanish accents and the opening exclamation mark survive.
func RenderPDF(doc *Document) ([]byte, error) {
	spec := doc.Spec
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(spec.MarginX, spec.MarginTop, spec.MarginX)
	pdf.SetAutoPageBreak(false, spec.MarginBottom)
	if doc.Name != "" {
		pdf.SetTitle(doc.Name, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pages := doc.Pages
	if len(pages) == 0 {
		pages = []Page{{Number: 1}}
	}

	for _, page := range pages {
		pdf.AddPage()
		for _, pb := range page.Blocks {
			y := pb.Top
			for _, line := range pb.Block.Lines {
				if line.Rule != nil {
					drawRule(pdf, spec, y, line.Rule)
				}
				for _, span := range line.Spans {
					drawSpan(pdf, spec, y, span, tr)
				}
				y += line.Advance
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("layout: render %s: %w", doc.Name, err)
	}
	return buf.Bytes(), nil
}

func drawRule(pdf *fpdf.Fpdf, spec PageSpec, y float64, r *Rule) {
	pdf.SetDrawColor(r.Gray, r.Gray, r.Gray)
	pdf.SetLineWidth(r.Width)
	pdf.Line(spec.MarginX, y, spec.Width-spec.MarginX, y)
	pdf.SetDrawColor(0, 0, 0)
}

func drawSpan(pdf *fpdf.Fpdf, spec PageSpec, y float64, s Span, tr func(string) string) {
	if s.Text == "" {
		return
	}
	pdf.SetFont(s.Style.Family, s.Style.fpdfStyle(), s.Style.Size)
	txt := tr(s.Text)
	x := spec.MarginX + s.X
	switch s.Align {
	case AlignCenter:
		x -= pdf.GetStringWidth(txt) / 2
	case AlignRight:
		x -= pdf.GetStringWidth(txt)
	}
	pdf.Text(x, y, txt)
}
