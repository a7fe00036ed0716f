package layout

import "strings"

// Align positions a span relative to its anchor X.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Span is a run of text on a line. X is measured from the left margin and is
// the start, centre or end of the text depending on Align.
type Span struct {
	Text  string
	Style Style
	X     float64
	Align Align
}

// Rule is a horizontal line across the printable width. Gray 0 is black.
type Rule struct {
	Gray  int
	Width float64
}

// Line is drawn at the current baseline and then advances it.
type Line struct {
	Spans   []Span
	Rule    *Rule
	Advance float64
}

// Text joins the line's spans with single spaces, in order.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Spans))
	for _, s := range l.Spans {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Block is the unit of placement. Its lines always land on the same page.
type Block struct {
	Kind  string
	Lines []Line
}

func NewBlock(kind string) *Block {
	return &Block{Kind: kind}
}

// Add appends lines and returns the block for chaining.
func (b *Block) Add(lines ...Line) *Block {
	b.Lines = append(b.Lines, lines...)
	return b
}

// Height is the total advance of the block.
func (b *Block) Height() float64 {
	h := 0.0
	for _, l := range b.Lines {
		h += l.Advance
	}
	return h
}

// Row builds a single line out of spans.
func Row(advance float64, spans ...Span) Line {
	return Line{Spans: spans, Advance: advance}
}

// HRule builds a solid rule followed by gap millimetres of space.
func HRule(gap float64) Line {
	return Line{Rule: &Rule{Gray: 0, Width: 0.2}, Advance: gap}
}

// ThinRule is the light separator drawn between items.
func ThinRule(gap float64) Line {
	return Line{Rule: &Rule{Gray: 200, Width: 0.2}, Advance: gap}
}

// Spacer only advances the cursor.
func Spacer(h float64) Line {
	return Line{Advance: h}
}
