package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTaxID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"known valid", "52998224725", true},
		{"known valid sequential", "12345678909", true},
		{"first check digit wrong", "52998224735", false},
		{"second check digit wrong", "52998224726", false},
		{"all zeros", "00000000000", false},
		{"all ones", "11111111111", false},
		{"all nines", "99999999999", false},
		{"too short", "5299822472", false},
		{"too long", "529982247250", false},
		{"empty", "", false},
		{"non digits", "5299822472a", false},
		{"masked input rejected", "529.982.247-25", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidTaxID(tt.input))
		})
	}
}

// Every repeated-digit sequence is rejected, even where the checksum
// arithmetic would happen to hold.
func TestIsValidTaxIDRejectsRepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		s := strings.Repeat(string(d), 11)
		assert.False(t, IsValidTaxID(s), "repeated digit %s", s)
	}
}

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		name  string
		units int64
		want  bool
	}{
		{"zero", 0, false},
		{"below minimum", 99, false},
		{"minimum", 100, true},
		{"typical", 2500, true},
		{"maximum", 99999999, true},
		{"above maximum", 100000000, false},
		{"negative", -100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAmount(tt.units))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("maria@x.com"))
	assert.True(t, IsValidEmail("a+b@sub.domain.org"))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("maria"))
	assert.False(t, IsValidEmail("maria@xcom"))
	assert.False(t, IsValidEmail("@x.com"))
	assert.False(t, IsValidEmail("maria.silva@xcom"), "dot must come after the @")
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("1187654321"))
	assert.True(t, IsValidPhone("11987654321"))
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("119876543"))
	assert.False(t, IsValidPhone("119876543210"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Maria Silva"))
	assert.True(t, IsValidName("Jo"))
	assert.False(t, IsValidName(""))
	assert.False(t, IsValidName("M"))
	assert.False(t, IsValidName("   a   "))
}
