package attach

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonFilename = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Slug converts a transaction label to a filename-safe token. Accented
// characters common in statement labels are reduced to their base letter
// before anything non-alphanumeric collapses to underscores.
// Example: "VIR SEPA Crédit Agricole" → "VIR_SEPA_Credit_Agricole".
func Slug(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, label)
	if err != nil {
		normalized = label
	}

	slug := nonFilename.ReplaceAllString(normalized, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "operation"
	}
	return slug
}
