// Package numwords spells amounts in Spanish for the "importe con letra" line
// printed under the receipt total.
package numwords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Ceiling is the largest integer spelled out. Anything above falls back to digits.
const Ceiling = 9999

var (
	units    = [...]string{"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}
	teens    = [...]string{"diez", "once", "doce", "trece", "catorce", "quince", "dieciséis", "diecisiete", "dieciocho", "diecinueve"}
	tens     = [...]string{"veinte", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}
	hundreds = [...]string{"cien", "doscientos", "trescientos", "cuatrocientos", "quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}
)

// ToSpanish spells n in lowercase Spanish.
//
// The hundreds band always uses "cien" for a leading one, so 101 reads "cien uno";
// receipts already printed with that wording, and reprints must match them.
// Negative input reads "cero". Values above Ceiling are returned as digits.
func ToSpanish(n int64) string {
	switch {
	case n <= 0:
		return units[0]
	case n < 10:
		return units[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		d, u := n/10, n%10
		if d == 2 && u > 0 {
			return "veinti" + units[u]
		}
		if u == 0 {
			return tens[d-2]
		}
		return tens[d-2] + " y " + units[u]
	case n < 1000:
		return withRest(hundreds[n/100-1], n%100)
	case n <= Ceiling:
		thousands := n / 1000
		head := "mil"
		if thousands > 1 {
			head = units[thousands] + " mil"
		}
		return withRest(head, n%1000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

func withRest(head string, rest int64) string {
	if rest == 0 {
		return head
	}
	return head + " " + ToSpanish(rest)
}

// SplitPesos returns the whole pesos and the rounded cents of amount. A cent
// value that rounds to 100 is carried into the pesos. Negative amounts count as zero.
func SplitPesos(amount decimal.Decimal) (int64, int64) {
	if amount.IsNegative() {
		return 0, 0
	}
	whole := amount.Floor()
	cents := amount.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	pesos := whole.IntPart()
	if cents >= 100 {
		pesos++
		cents -= 100
	}
	return pesos, cents
}

// AmountInWords renders the legal amount line, e.g. "CINCUENTA Y CINCO PESOS 00/100 M.N.".
func AmountInWords(amount decimal.Decimal) string {
	pesos, cents := SplitPesos(amount)
	return fmt.Sprintf("%s PESOS %02d/100 M.N.", strings.ToUpper(ToSpanish(pesos)), cents)
}
