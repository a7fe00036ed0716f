// Package textnorm provides the accent and case insensitive matching used by
// every search box in the terminal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize decomposes s (NFD), drops combining marks, lowercases and trims.
// "Cámara" and "camara" normalize to the same string.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Words splits a query into normalized words, ignoring repeated whitespace.
func Words(query string) []string {
	return strings.Fields(Normalize(query))
}

// MatchesAll reports whether every word of query appears in haystack after
// normalization. An empty query matches everything.
func MatchesAll(haystack, query string) bool {
	words := Words(query)
	if len(words) == 0 {
		return true
	}
	h := Normalize(haystack)
	for _, w := range words {
		if !strings.Contains(h, w) {
			return false
		}
	}
	return true
}

// Equal compares two strings after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Join concatenates fields with a space so they can be searched as one haystack.
func Join(fields ...string) string {
	return strings.Join(fields, " ")
}
