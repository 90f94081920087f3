package fields

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"no digits", "abc", ""},
		{"one digit", "5", "R$ 0,05"},
		{"two digits", "25", "R$ 0,25"},
		{"whole real", "100", "R$ 1,00"},
		{"preset", "2500", "R$ 25,00"},
		{"thousands grouping", "12345678", "R$ 123.456,78"},
		{"caps at eight digits", "123456789", "R$ 123.456,78"},
		{"mixed input", "R$ 25,00", "R$ 25,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.raw))
		})
	}
}

func TestParseCurrencyToMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    int64
	}{
		{"empty", "", 0},
		{"non numeric", "abc", 0},
		{"plain", "R$ 25,00", 2500},
		{"grouped", "R$ 123.456,78", 12345678},
		{"no symbol", "25,00", 2500},
		{"minimum", "R$ 1,00", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCurrencyToMinorUnits(tt.display))
		})
	}
}

// Round-trip: formatting an amount in centavos and parsing it back must be
// the identity over the whole submittable window.
func TestCurrencyRoundTrip(t *testing.T) {
	fixed := []int64{100, 101, 999, 1000, 2500, 99999, 100000, 1234567, 12345678, 99999999}
	for _, m := range fixed {
		got := ParseCurrencyToMinorUnits(FormatCurrency(strconv.FormatInt(m, 10)))
		assert.Equal(t, m, got, "round trip for %d", m)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		m := 100 + rng.Int63n(99999900)
		got := ParseCurrencyToMinorUnits(FormatCurrency(strconv.FormatInt(m, 10)))
		assert.Equal(t, m, got, "round trip for %d", m)
	}
}

func TestFormatTaxID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"partial three", "123", "123"},
		{"partial four", "1234", "123.4"},
		{"partial seven", "1234567", "123.456.7"},
		{"partial ten", "1234567890", "123.456.789-0"},
		{"full", "12345678901", "123.456.789-01"},
		{"overflow truncated", "123456789012345", "123.456.789-01"},
		{"already masked", "123.456.789-01", "123.456.789-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTaxID(tt.raw))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"ddd only", "11", "(11"},
		{"partial", "11987", "(11) 987"},
		{"landline", "1187654321", "(11) 8765-4321"},
		{"mobile", "11987654321", "(11) 98765-4321"},
		{"overflow truncated", "119876543210000", "(11) 98765-4321"},
		{"already masked", "(11) 98765-4321", "(11) 98765-4321"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.raw))
		})
	}
}

// Applying a mask to its own output must not change it, for any input.
func TestMaskingIdempotence(t *testing.T) {
	inputs := []string{
		"", "1", "11", "119", "11987654321", "1187654321",
		"(11) 98765-4321", "123.456.789-01", "12345678901", "abc123def456",
		"+55 11 98765-4321", "000", "999999999999999999",
	}
	for _, x := range inputs {
		assert.Equal(t, FormatPhone(x), FormatPhone(FormatPhone(x)), "phone mask for %q", x)
		assert.Equal(t, FormatTaxID(x), FormatTaxID(FormatTaxID(x)), "tax id mask for %q", x)
	}
}

func TestToDigits(t *testing.T) {
	assert.Equal(t, "11987654321", ToDigits("(11) 98765-4321"))
	assert.Equal(t, "12345678901", ToDigits("123.456.789-01"))
	assert.Equal(t, "", ToDigits("abc"))
	assert.Equal(t, "123", ToDigits("1a2b3c"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Maria Silva", SanitizeName("Maria Silva"))
	assert.Equal(t, "Maria Silva", SanitizeName("Maria Silva123!"))
	assert.Equal(t, "José da Conceição", SanitizeName("José da Conceição"))
	assert.Equal(t, "", SanitizeName("123456"))

	long := make([]byte, 0, 150)
	for i := 0; i < 150; i++ {
		long = append(long, 'a')
	}
	assert.Len(t, SanitizeName(string(long)), MaxNameLen)
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "maria@x.com", SanitizeEmail(" maria@x.com "))
	assert.Equal(t, "maria@x.com", SanitizeEmail("ma ria@x.com"))
	assert.Equal(t, "a+b@x.com", SanitizeEmail("a+b@x.com"))
}
