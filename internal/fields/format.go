// Package fields holds the pure normalization, formatting and validation
// rules for donor-supplied form data: monetary amounts in centavos, CPF tax
// identifiers, Brazilian phone numbers, names and emails.
//
// Formatters are applied on every keystroke so the display and canonical
// representations never diverge; validators run only at submit time.
package fields

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// MaxCurrencyDigits caps free-text amounts below R$1,000,000.00.
	MaxCurrencyDigits = 8

	MaxNameLen  = 100
	MaxEmailLen = 100
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ToDigits strips every non-digit character, recovering the canonical form of
// phone numbers and tax identifiers from their masked display form.
func ToDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCurrency renders a raw digit string as a pt-BR currency value. The
// digit string is read as an integer amount of centavos: "2500" => "R$ 25,00".
// Empty or digit-less input yields an empty display.
func FormatCurrency(raw string) string {
	digits := ToDigits(raw)
	if digits == "" {
		return ""
	}
	if len(digits) > MaxCurrencyDigits {
		digits = digits[:MaxCurrencyDigits]
	}
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ""
	}
	// Grouping of the integer part follows the locale; the centavos pair is
	// fixed-width and always comma-separated.
	return ptBR.Sprintf("R$ %d", cents/100) + fmt.Sprintf(",%02d", cents%100)
}

// ParseCurrencyToMinorUnits is the inverse of FormatCurrency: it strips the
// currency symbol and thousands separators, converts the decimal comma to a
// dot and parses the result into centavos. Empty or non-numeric input
// yields 0.
func ParseCurrencyToMinorUnits(display string) int64 {
	s := strings.TrimSpace(display)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(v * 100))
}

// FormatTaxID applies the progressive CPF mask: "12345678901" =>
// "123.456.789-01". Partial input yields a partial mask.
func FormatTaxID(raw string) string {
	digits := ToDigits(raw)
	if len(digits) > 11 {
		digits = digits[:11]
	}
	var b strings.Builder
	for i, r := range digits {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatPhone applies the progressive "(DD) DDDDD-DDDD" mask. Landline
// numbers (10 digits) come out as "(DD) DDDD-DDDD".
func FormatPhone(raw string) string {
	digits := ToDigits(raw)
	if len(digits) > 11 {
		digits = digits[:11]
	}
	switch {
	case len(digits) == 0:
		return ""
	case len(digits) <= 2:
		return "(" + digits
	case len(digits) <= 7:
		return "(" + digits[:2] + ") " + digits[2:]
	default:
		return "(" + digits[:2] + ") " + digits[2:len(digits)-4] + "-" + digits[len(digits)-4:]
	}
}

// SanitizeName strips digits and symbols (accented letters and spaces stay)
// and truncates to the maximum length, never rejecting mid-type.
func SanitizeName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if isNameRune(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len([]rune(s)) > MaxNameLen {
		s = string([]rune(s)[:MaxNameLen])
	}
	return s
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == ' ':
		return true
	case r >= 'À' && r <= 'ÿ' && r != '×' && r != '÷':
		// Latin-1 accented letters, minus the multiplication/division signs.
		return true
	}
	return false
}

// SanitizeEmail strips whitespace and truncates to the maximum length.
func SanitizeEmail(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > MaxEmailLen {
		s = s[:MaxEmailLen]
	}
	return s
}
