// Package layout flows receipt content onto fixed-size pages.
//
// Content is grouped into blocks. A block is measured before it is placed and is
// never split: when it does not fit in the space left on the current page the
// engine starts a new page and places it at the top. Continuation pages do not
// repeat the header.
//
// Positions follow the PDF text model: the vertical cursor is the baseline of
// the next line and every line advances it by a fixed amount.
package layout

// PtToMM converts typographic points to millimetres.
const PtToMM = 0.352777778

// LineHeightFactor is applied to the font size to get the line advance.
const LineHeightFactor = 1.15

// Font families available as PDF core fonts.
const (
	FamilyHelvetica = "Helvetica"
	FamilyCourier   = "Courier"
)

// PageSpec describes a physical page in millimetres.
type PageSpec struct {
	Name         string
	Width        float64
	Height       float64
	MarginX      float64
	MarginTop    float64
	MarginBottom float64
}

// Thermal58 is the 58mm roll format. Most 58mm heads print about 48mm.
func Thermal58() PageSpec {
	return PageSpec{
		Name:         "thermal58",
		Width:        58,
		Height:       200,
		MarginX:      5,
		MarginTop:    5,
		MarginBottom: 5,
	}
}

// Letter is the full-page format used for quotations.
func Letter() PageSpec {
	return PageSpec{
		Name:         "letter",
		Width:        215.9,
		Height:       279.4,
		MarginX:      14,
		MarginTop:    20,
		MarginBottom: 9.4,
	}
}

// PrintableWidth is the width between the side margins.
func (p PageSpec) PrintableWidth() float64 {
	return p.Width - 2*p.MarginX
}

// Bottom is the lowest baseline a line may occupy.
func (p PageSpec) Bottom() float64 {
	return p.Height - p.MarginBottom
}

// ContentHeight is the vertical space of an empty page.
func (p PageSpec) ContentHeight() float64 {
	return p.Bottom() - p.MarginTop
}

// Style selects font family, weight and size in points.
type Style struct {
	Family string
	Size   float64
	Bold   bool
}

func Helvetica(size float64) Style {
	return Style{Family: FamilyHelvetica, Size: size}
}

func Courier(size float64) Style {
	return Style{Family: FamilyCourier, Size: size}
}

// Bolded returns a copy of s in bold.
func (s Style) Bolded() Style {
	s.Bold = true
	return s
}

// LineHeight is the advance for one line of s. It depends only on the size so
// repeated blocks never drift.
func (s Style) LineHeight() float64 {
	return LineHeight(s.Size)
}

// LineHeight returns the advance in millimetres for a font size in points.
func LineHeight(size float64) float64 {
	return LineHeightFactor * size * PtToMM
}

func (s Style) fpdfStyle() string {
	if s.Bold {
		return "B"
	}
	return ""
}
