package orderbuilder

import (
	"regexp"
	"strings"
)

// Factory SKU normalization: the factory's catalog does not carry the
// warehouse's packaging and format markers, so they are stripped before
// a reference lands on an order sheet.

var (
	formatSuffixRe  = regexp.MustCompile(`(?i)\s+51X51(-\d+)?$`)
	trailingDigitRe = regexp.MustCompile(`-\d$`)
	trailingBTERe   = regexp.MustCompile(`(?i)\s+BTE$`)
)

// NormalizeFactorySKU strips the warehouse-side markers from a SKU.
// Normalizing an already-normalized SKU returns it unchanged.
func NormalizeFactorySKU(sku string) string {
	s := strings.TrimSpace(sku)
	s = strings.ReplaceAll(s, "(T)", "")
	s = trailingBTERe.ReplaceAllString(s, "")
	s = formatSuffixRe.ReplaceAllString(s, "")
	s = trailingDigitRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
