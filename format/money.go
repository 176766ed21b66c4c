// Package format renders amounts, dates and references the way they appear
// in French rental documents.
package format

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency codes with a known symbol.
const (
	XOF = "XOF"
	EUR = "EUR"
	USD = "USD"
)

var frPrinter = message.NewPrinter(language.French)

// Currency formats amount with French digit grouping and no decimals,
// followed by the symbol of code: 150000 XOF -> "150 000 F CFA".
// Unknown codes yield the bare number. Groups are separated by a plain space
// so the result survives single-byte PDF fonts.
func Currency(amount decimal.Decimal, code string) string {
	return Grouped(amount) + Symbol(code)
}

// Symbol returns the suffix appended to amounts in code, including its
// leading space, or "" for unknown codes.
func Symbol(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case XOF, "FCFA", "CFA":
		return " F CFA"
	case EUR:
		return " €"
	case USD:
		return " $"
	}
	return ""
}

// Grouped formats amount rounded to an integer with French thousands
// grouping: 1234567 -> "1 234 567".
func Grouped(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	return normalizeSpaces(frPrinter.Sprintf("%d", n))
}

// AmountWords spells the integer part of amount in French.
func AmountWords(amount decimal.Decimal) string {
	return Words(amount.Round(0).IntPart())
}

// normalizeSpaces replaces the no-break spaces used by CLDR grouping with
// ordinary spaces.
func normalizeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}
