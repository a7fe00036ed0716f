package layout

import "strings"

// Column is one column of a table. Width is in millimetres.
type Column struct {
	Title string
	Width float64
	Align Align
}

// Table lays out fixed-width columns starting at the left margin. Cells that
// do not fit are shortened with "...".
type Table struct {
	Columns []Column
	Style   Style
	Gap     float64
}

// Header returns the bold title row followed by a rule.
func (t Table) Header(m Measurer) *Block {
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	b := NewBlock("table-header")
	b.Add(t.row(m, titles, t.Style.Bolded()))
	return b.Add(HRule(t.Style.LineHeight() * 0.6))
}

// Row returns one table row as its own block, so rows never split.
func (t Table) Row(m Measurer, cells ...string) *Block {
	return NewBlock("table-row").Add(t.row(m, cells, t.Style))
}

func (t Table) row(m Measurer, cells []string, style Style) Line {
	spans := make([]Span, 0, len(t.Columns))
	x := 0.0
	for i, c := range t.Columns {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		avail := c.Width - t.Gap
		text = FitText(m, text, avail, style)

		anchor := x
		switch c.Align {
		case AlignCenter:
			anchor = x + c.Width/2
		case AlignRight:
			anchor = x + c.Width - t.Gap
		}
		spans = append(spans, Span{Text: text, Style: style, X: anchor, Align: c.Align})
		x += c.Width
	}
	return Row(style.LineHeight(), spans...)
}

// FitText shortens s with a trailing "..." until it fits width.
func FitText(m Measurer, s string, width float64, style Style) string {
	s = strings.TrimSpace(s)
	if m.StringWidth(s, style) <= width {
		return s
	}
	const ellipsis = "..."
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if m.StringWidth(candidate, style) <= width {
			return candidate
		}
	}
	return ""
}
