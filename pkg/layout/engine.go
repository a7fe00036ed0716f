package layout

// PlacedBlock records where a block landed.
type PlacedBlock struct {
	Block *Block
	Page  int
	Top   float64
}

// Bottom is the cursor position right after the block.
func (p PlacedBlock) Bottom() float64 {
	return p.Top + p.Block.Height()
}

type Page struct {
	Number int
	Blocks []PlacedBlock
}

// Document is the immutable result of a layout run.
type Document struct {
	Name  string
	Spec  PageSpec
	Pages []Page
}

// Lines returns the text of every line in reading order. Rules and spacers are skipped.
func (d *Document) Lines() []string {
	var out []string
	for _, p := range d.Pages {
		for _, pb := range p.Blocks {
			for _, l := range pb.Block.Lines {
				if len(l.Spans) == 0 {
					continue
				}
				out = append(out, l.Text())
			}
		}
	}
	return out
}

// Blocks returns all placed blocks across pages.
func (d *Document) Blocks() []PlacedBlock {
	var out []PlacedBlock
	for _, p := range d.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}

// Engine places blocks top to bottom and breaks pages when needed.
type Engine struct {
	spec     PageSpec
	measurer Measurer
	pages    []Page
	y        float64
}

func NewEngine(spec PageSpec, m Measurer) *Engine {
	e := &Engine{spec: spec, measurer: m}
	e.StartNewPage()
	return e
}

func (e *Engine) Spec() PageSpec { return e.spec }

func (e *Engine) Measurer() Measurer { return e.measurer }

// Width is the printable width.
func (e *Engine) Width() float64 { return e.spec.PrintableWidth() }

// Cursor is the current baseline on the current page.
func (e *Engine) Cursor() float64 { return e.y }

// PageCount is the number of pages started so far.
func (e *Engine) PageCount() int { return len(e.pages) }

// MeasureWrappedLines wraps text to the printable width.
func (e *Engine) MeasureWrappedLines(text string, style Style) []string {
	return WrapLines(e.measurer, text, e.Width(), style)
}

// NeedsNewPage reports whether a block of height h would cross the printable bottom.
func (e *Engine) NeedsNewPage(h float64) bool {
	return e.y+h > e.spec.Bottom()
}

// StartNewPage moves the cursor to the top margin of a fresh page. Nothing is
// repeated from the previous page.
func (e *Engine) StartNewPage() {
	e.pages = append(e.pages, Page{Number: len(e.pages) + 1})
	e.y = e.spec.MarginTop
}

func (e *Engine) currentPage() *Page {
	return &e.pages[len(e.pages)-1]
}

// Place measures b, breaks the page if it would not fit and then writes it.
// A block taller than an empty page is placed at the top of a page of its own
// and runs past the bottom margin rather than being split.
func (e *Engine) Place(b *Block) PlacedBlock {
	h := b.Height()
	if e.NeedsNewPage(h) && len(e.currentPage().Blocks) > 0 {
		e.StartNewPage()
	}
	pb := PlacedBlock{Block: b, Page: len(e.pages), Top: e.y}
	page := e.currentPage()
	page.Blocks = append(page.Blocks, pb)
	e.y += h
	return pb
}

// Document freezes the placed content. Empty pages are dropped.
func (e *Engine) Document(name string) *Document {
	pages := make([]Page, 0, len(e.pages))
	for _, p := range e.pages {
		if len(p.Blocks) == 0 {
			continue
		}
		blocks := make([]PlacedBlock, len(p.Blocks))
		copy(blocks, p.Blocks)
		pages = append(pages, Page{Number: len(pages) + 1, Blocks: blocks})
	}
	return &Document{Name: name, Spec: e.spec, Pages: pages}
}

// Text builds lines for wrapped text aligned across the printable width.
func (e *Engine) Text(text string, style Style, align Align, advance float64) []Line {
	return e.TextLines(e.MeasureWrappedLines(text, style), style, align, advance)
}

// TextLines builds one line per entry without wrapping.
func (e *Engine) TextLines(lines []string, style Style, align Align, advance float64) []Line {
	x := 0.0
	switch align {
	case AlignCenter:
		x = e.Width() / 2
	case AlignRight:
		x = e.Width()
	}
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Row(advance, Span{Text: l, Style: style, X: x, Align: align}))
	}
	return out
}
