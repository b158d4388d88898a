package scan

import "strings"

// NormalizeISBN strips everything but digits from a decoded barcode text.
// Readers frequently emit hyphenated or otherwise decorated strings.
func NormalizeISBN(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidISBN reports whether the text is a 13-digit book ISBN after
// normalization. Book barcodes always start with 978 or 979; anything else
// is reader noise and is ignored.
func IsValidISBN(raw string) bool {
	code := NormalizeISBN(raw)
	if len(code) != 13 {
		return false
	}
	return strings.HasPrefix(code, "978") || strings.HasPrefix(code, "979")
}
