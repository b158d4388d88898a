package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidISBN(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"bare isbn-13 with 978 prefix", "9784000000000", true},
		{"bare isbn-13 with 979 prefix", "9791000000000", true},
		{"hyphenated isbn-13", "978-4-00-000000-0", true},
		{"isbn with surrounding text", "ISBN 978-4-00-000000-0", true},
		{"13 digits without book prefix", "1234567890123", false},
		{"too short", "97840000000", false},
		{"too long", "97840000000000", false},
		{"isbn-10", "4000000000", false},
		{"empty", "", false},
		{"letters only", "not a barcode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidISBN(tt.raw))
		})
	}
}

func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9784000000000", NormalizeISBN("978-4-00-000000-0"))
	assert.Equal(t, "9784000000000", NormalizeISBN(" 9784000000000\n"))
	assert.Equal(t, "", NormalizeISBN("no digits"))
}
