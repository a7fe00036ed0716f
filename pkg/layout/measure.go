package layout

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// Measurer reports the rendered width of a string in millimetres.
type Measurer interface {
	StringWidth(s string, style Style) float64
}

// FpdfMeasurer measures text with the PDF core font metrics, the same ones
// used when the document is rendered.
type FpdfMeasurer struct {
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func NewFpdfMeasurer() *FpdfMeasurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &FpdfMeasurer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (m *FpdfMeasurer) StringWidth(s string, style Style) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(style.Family, style.fpdfStyle(), style.Size)
	return m.pdf.GetStringWidth(m.translate(s))
}

// MonoMeasurer gives every rune the same advance, Ratio times the font size.
// It makes layout arithmetic predictable in tests.
type MonoMeasurer struct {
	Ratio float64
}

func (m MonoMeasurer) StringWidth(s string, style Style) float64 {
	ratio := m.Ratio
	if ratio <= 0 {
		ratio = 0.5
	}
	return float64(utf8.RuneCountInString(s)) * style.Size * PtToMM * ratio
}

// WrapLines word-wraps text so every line fits maxWidth. Words longer than a
// full line are broken between runes. Explicit newlines are kept. Empty text
// still yields one (empty) line.
func WrapLines(m Measurer, text string, maxWidth float64, style Style) []string {
	return WrapIndented(m, text, maxWidth, style, "")
}

// WrapIndented wraps like WrapLines but prefixes continuation lines with indent
// and reserves its width.
func WrapIndented(m Measurer, text string, maxWidth float64, style Style, indent string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapParagraph(m, para, maxWidth, style, indent, len(out) > 0)...)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func wrapParagraph(m Measurer, text string, maxWidth float64, style Style, indent string, continued bool) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		if continued {
			return nil
		}
		return []string{""}
	}

	var lines []string
	prefix := func() string {
		if continued || len(lines) > 0 {
			return indent
		}
		return ""
	}

	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if m.StringWidth(prefix()+candidate, style) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, prefix()+current)
			current = ""
		}
		// the word alone may still be too wide
		for w != "" && m.StringWidth(prefix()+w, style) > maxWidth {
			head, tail := splitToWidth(m, w, maxWidth-m.StringWidth(prefix(), style), style)
			lines = append(lines, prefix()+head)
			w = tail
		}
		current = w
	}
	if current != "" {
		lines = append(lines, prefix()+current)
	}
	return lines
}

// splitToWidth returns the longest rune prefix of w that fits, at least one rune.
func splitToWidth(m Measurer, w string, maxWidth float64, style Style) (string, string) {
	runes := []rune(w)
	if len(runes) == 0 {
		return "", ""
	}
	n := 1
	for n < len(runes) && m.StringWidth(string(runes[:n+1]), style) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
