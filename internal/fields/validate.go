package fields

import "strings"

const (
	// MinAmountMinorUnits is R$1,00; MaxAmountMinorUnits is R$999.999,99.
	MinAmountMinorUnits int64 = 100
	MaxAmountMinorUnits int64 = 99_999_999
)

// IsValidTaxID reports whether s is a checksum-valid CPF. Input must already
// be canonical: exactly 11 digits. Sequences of a single repeated digit are
// rejected outright even when the arithmetic would pass.
func IsValidTaxID(s string) bool {
	if len(s) != 11 || ToDigits(s) != s {
		return false
	}
	allSame := true
	for i := 1; i < 11; i++ {
		if s[i] != s[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}
	if checkDigit(s, 9) != int(s[9]-'0') {
		return false
	}
	return checkDigit(s, 10) == int(s[10]-'0')
}

// checkDigit computes the CPF verification digit over the first n digits,
// with descending weights n+1..2 and the (sum*10) mod 11 rule, 10 mapping
// to 0.
func checkDigit(s string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(s[i]-'0') * (n + 1 - i)
	}
	d := (sum * 10) % 11
	if d >= 10 {
		d = 0
	}
	return d
}

// IsValidAmount reports whether the amount in centavos is inside the
// accepted donation window.
func IsValidAmount(minorUnits int64) bool {
	return minorUnits >= MinAmountMinorUnits && minorUnits <= MaxAmountMinorUnits
}

// IsValidEmail applies the minimal structural check: non-empty, an "@" with a
// "." somewhere after it. Deliberately not RFC validation, so unusual but
// deliverable addresses are not rejected.
func IsValidEmail(s string) bool {
	if s == "" || len(s) > MaxEmailLen {
		return false
	}
	at := strings.Index(s, "@")
	if at <= 0 {
		return false
	}
	return strings.Contains(s[at:], ".")
}

// IsValidPhone expects canonical digits: 10 (landline) or 11 (mobile).
func IsValidPhone(digits string) bool {
	return len(digits) == 10 || len(digits) == 11
}

// IsValidName requires at least two non-space characters.
func IsValidName(s string) bool {
	return len(strings.TrimSpace(s)) >= 2
}
