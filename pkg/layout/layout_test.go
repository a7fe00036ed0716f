package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mono = MonoMeasurer{Ratio: 0.5}

func TestWrapLines(t *testing.T) {
	style := Helvetica(8)
	// 0.5 * 8pt is ~1.41mm per rune, so 48mm holds 34 runes
	text := "Tubo de cobre flexible tipo L de media pulgada por metro lineal"

	lines := WrapLines(mono, text, 48, style)

	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, mono.StringWidth(l, style), 48.0, l)
	}
	assert.Equal(t, text, strings.Join(lines, " "))
}

func TestWrapLines_EmptyTextIsOneLine(t *testing.T) {
	assert.Equal(t, []string{""}, WrapLines(mono, "", 48, Helvetica(8)))
	assert.Equal(t, []string{""}, WrapLines(mono, "   ", 48, Helvetica(8)))
}

func TestWrapLines_SplitsOverlongWord(t *testing.T) {
	style := Helvetica(8)
	word := strings.Repeat("X", 80)

	lines := WrapLines(mono, word, 48, style)

	require.Len(t, lines, 3)
	assert.Len(t, lines[0], 34)
	assert.Equal(t, word, strings.Join(lines, ""))
}

func TestWrapIndented(t *testing.T) {
	style := Helvetica(8)
	lines := WrapIndented(mono, "uno dos tres cuatro cinco seis siete ocho nueve diez once doce", 20, style, "  ")

	require.Greater(t, len(lines), 2)
	assert.False(t, strings.HasPrefix(lines[0], " "))
	for _, l := range lines[1:] {
		assert.True(t, strings.HasPrefix(l, "  "), l)
		assert.LessOrEqual(t, mono.StringWidth(l, style), 20.0)
	}
}

func TestWrapIndented_IndentWiderThanLine(t *testing.T) {
	style := Helvetica(8)
	text := "aaaa bbbb cccc"

	var lines []string
	require.NotPanics(t, func() {
		lines = WrapIndented(mono, text, 3, style, "      ")
	})

	var joined strings.Builder
	for _, l := range lines {
		assert.NotEmpty(t, strings.TrimSpace(l))
		joined.WriteString(strings.TrimSpace(l))
	}
	assert.Equal(t, strings.ReplaceAll(text, " ", ""), joined.String())
}

func TestLineHeightIsStablePerSize(t *testing.T) {
	assert.Equal(t, LineHeight(8), Helvetica(8).Bolded().LineHeight())
	assert.Equal(t, LineHeight(8), Courier(8).LineHeight())
	assert.InDelta(t, 3.2456, LineHeight(8), 0.0001)
}

func smallPage() PageSpec {
	return PageSpec{Name: "test", Width: 58, Height: 50, MarginX: 5, MarginTop: 5, MarginBottom: 5}
}

func fixedBlock(kind string, h float64) *Block {
	return NewBlock(kind).Add(Row(h, Span{Text: kind, Style: Helvetica(8)}))
}

func TestEngine_NeverSplitsBlocks(t *testing.T) {
	e := NewEngine(smallPage(), mono)
	e.Place(fixedBlock("header", 8))
	for i := 0; i < 6; i++ {
		e.Place(fixedBlock("item", 12))
	}

	doc := e.Document("t")

	require.Len(t, doc.Pages, 3)
	for _, pb := range doc.Blocks() {
		assert.LessOrEqual(t, pb.Bottom(), smallPage().Bottom(), "block on page %d crosses the bottom", pb.Page)
	}
}

func TestEngine_OverflowPageHasNoHeader(t *testing.T) {
	e := NewEngine(smallPage(), mono)
	e.Place(fixedBlock("header", 20))
	e.Place(fixedBlock("item", 12))
	overflow := e.Place(fixedBlock("item", 12))

	assert.Equal(t, 2, overflow.Page)
	assert.Equal(t, smallPage().MarginTop, overflow.Top)

	doc := e.Document("t")
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "item", doc.Pages[1].Blocks[0].Block.Kind)
}

func TestEngine_NeedsNewPage(t *testing.T) {
	e := NewEngine(smallPage(), mono)
	assert.False(t, e.NeedsNewPage(40))
	assert.True(t, e.NeedsNewPage(40.01))

	e.Place(fixedBlock("a", 30))
	assert.True(t, e.NeedsNewPage(11))
	assert.Equal(t, 35.0, e.Cursor())
}

func TestEngine_OversizedBlockGetsItsOwnPage(t *testing.T) {
	e := NewEngine(smallPage(), mono)
	e.Place(fixedBlock("small", 5))
	big := e.Place(fixedBlock("big", 60))
	after := e.Place(fixedBlock("after", 5))

	assert.Equal(t, 2, big.Page)
	assert.Equal(t, 5.0, big.Top)
	assert.Equal(t, 3, after.Page)
	assert.Equal(t, 3, e.PageCount())
}

func TestEngine_OversizedFirstBlockDoesNotLeaveBlankPage(t *testing.T) {
	e := NewEngine(smallPage(), mono)
	pb := e.Place(fixedBlock("big", 60))

	assert.Equal(t, 1, pb.Page)
	assert.Len(t, e.Document("t").Pages, 1)
}

func TestEngine_TextAlignment(t *testing.T) {
	e := NewEngine(Thermal58(), mono)
	center := e.Text("CLIMAS GAMA", Helvetica(12).Bolded(), AlignCenter, 5)
	right := e.TextLines([]string{"V_ID: 9"}, Helvetica(8), AlignRight, 4)

	require.Len(t, center, 1)
	assert.Equal(t, 24.0, center[0].Spans[0].X)
	assert.Equal(t, 48.0, right[0].Spans[0].X)
}

func TestDocumentLines(t *testing.T) {
	e := NewEngine(Thermal58(), mono)
	b := NewBlock("total").Add(
		HRule(2),
		Row(5, Span{Text: "TOTAL:", X: 18}, Span{Text: "$55.00", X: 48, Align: AlignRight}),
	)
	e.Place(b)

	assert.Equal(t, []string{"TOTAL: $55.00"}, e.Document("t").Lines())
}

func TestRenderPDF(t *testing.T) {
	e := NewEngine(Thermal58(), NewFpdfMeasurer())
	e.Place(NewBlock("header").Add(e.Text("¡Gracias por su compra! Prol. Av. Juárez", Helvetica(8).Bolded(), AlignCenter, 3.6)...))
	e.Place(NewBlock("rule").Add(HRule(2), ThinRule(1.2)))

	data, err := RenderPDF(e.Document("sale_1"))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestFpdfMeasurer(t *testing.T) {
	m := NewFpdfMeasurer()
	// courier advances 600/1000 em per glyph
	assert.InDelta(t, 4*0.6*7.5*PtToMM, m.StringWidth("Cant", Courier(7.5)), 0.001)
	assert.Greater(t, m.StringWidth("W", Helvetica(8).Bolded()), m.StringWidth("i", Helvetica(8)))
}

func TestTable(t *testing.T) {
	style := Helvetica(8)
	// 8pt mono runes are ~1.41mm wide, so a 15mm column with 1mm gap holds 9 runes
	table := Table{
		Columns: []Column{
			{Title: "Código", Width: 15},
			{Title: "Descripción", Width: 40},
			{Title: "Stock", Width: 15, Align: AlignRight},
		},
		Style: style,
		Gap:   1,
	}

	header := table.Header(mono)
	require.Len(t, header.Lines, 2)
	assert.Equal(t, "Código Descripción Stock", header.Lines[0].Text())
	assert.True(t, header.Lines[0].Spans[0].Style.Bold)

	row := table.Row(mono, "TUBO-COBRE-001", "Tubo", "12")
	spans := row.Lines[0].Spans
	assert.Equal(t, "TUBO-C...", spans[0].Text)
	assert.Equal(t, 15.0, spans[1].X)
	assert.Equal(t, 69.0, spans[2].X)
	assert.Equal(t, AlignRight, spans[2].Align)

	// missing cells render empty
	assert.Equal(t, "", table.Row(mono, "A").Lines[0].Spans[2].Text)
}

func TestFitText(t *testing.T) {
	style := Helvetica(8)
	assert.Equal(t, "corto", FitText(mono, "corto", 20, style))
	assert.Equal(t, "", FitText(mono, "largo", 1, style))
}
