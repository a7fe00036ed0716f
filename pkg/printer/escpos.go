package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// codePage850 is the ESC t table number for PC850 (Multilingual Latin 1),
// which carries á é í ó ú ñ ¡ ¿.
const codePage850 = 2

// Document builds an ESC/POS byte stream for a thermal printer. Text is
// encoded as PC850 so Spanish accents print.
type Document struct {
	buf     bytes.Buffer
	width   int
	encoder func(string) string
}

// NewDocument creates a document for charWidth columns: 32 on 58mm paper,
// 48 on 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	enc := charmap.CodePage850.NewEncoder()
	d := &Document{
		width: charWidth,
		encoder: func(s string) string {
			out, err := enc.String(s)
			if err != nil {
				return asciiFallback(s)
			}
			return out
		},
	}
	d.Init()
	return d
}

// Width is the line width in characters.
func (d *Document) Width() int { return d.width }

// Init resets the printer and selects the PC850 code page.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	d.buf.Write([]byte{ESC, 't', codePage850})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize takes FontNormal, FontDouble, FontWide or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(d.encoder(s))
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Wrapped writes s word-wrapped to the line width. Continuation lines get indent.
func (d *Document) Wrapped(s, indent string) *Document {
	for _, l := range WrapColumns(s, d.width, indent) {
		d.Text(l)
	}
	return d
}

// Separator prints char across the full width.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value flush right.
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(padBetween(key, value, d.width))
}

// Columns prints three fields: left aligned, right aligned at midEnd, and
// flush right. Used for the "Cant / P.Unit / Subt" row.
func (d *Document) Columns(left, mid, right string, midEnd int) *Document {
	line := padRight(left, midEnd-runeLen(mid)) + mid
	return d.Text(padBetween(line, right, d.width))
}

func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset clears the buffer and reinitializes the printer.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

// WrapColumns word-wraps s to width characters. Words longer than a line are
// cut. Continuation lines are prefixed with indent.
func WrapColumns(s string, width int, indent string) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	avail := func() int {
		if len(lines) == 0 {
			return width
		}
		return width - runeLen(indent)
	}
	flush := func() {
		prefix := ""
		if len(lines) > 0 {
			prefix = indent
		}
		lines = append(lines, prefix+current)
		current = ""
	}

	for _, w := range words {
		if current != "" && runeLen(current)+1+runeLen(w) <= avail() {
			current += " " + w
			continue
		}
		if current != "" {
			flush()
		}
		for runeLen(w) > avail() {
			n := avail()
			if n < 1 {
				n = 1
			}
			r := []rune(w)
			current = string(r[:n])
			flush()
			w = string(r[n:])
		}
		current = w
	}
	if current != "" {
		flush()
	}
	return lines
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func padBetween(left, right string, width int) string {
	spaces := width - runeLen(left) - runeLen(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

func padRight(s string, width int) string {
	if n := width - runeLen(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s + " "
}

var accentFallback = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ñ", "N", "Ü", "U",
	"¡", "!", "¿", "?",
)

// asciiFallback strips what PC850 could not encode.
func asciiFallback(s string) string {
	s = accentFallback.Replace(s)
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
