package domain

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)

	// Matches size/quantity patterns common in Dutch store listings,
	// e.g. "1L", "1 liter", "500 gram", "0,5l", "6 stuks", "2x".
	sizePatternRegex = regexp.MustCompile(
		`(?i)\b\d+(?:[.,]\d+)?\s*(?:ml|cl|dl|l|liters?|gr?|grams?|grammen|kg|kilo|stuks?|st|x|pak|zak|fles|blik|rollen?|plakken)\b`,
	)
)

// unitTokens are size/unit words that dilute token-overlap scoring and
// are stripped entirely during normalization.
var unitTokens = map[string]bool{
	"ml": true, "cl": true, "dl": true, "liter": true, "liters": true,
	"gr": true, "gram": true, "grams": true, "grammen": true, "kg": true,
	"kilo": true, "stuk": true, "stuks": true, "pak": true, "zak": true,
	"fles": true, "blik": true, "rol": true, "rollen": true, "per": true,
	"ca": true,
}

// Normalize canonicalizes a product name or query for matching:
// lowercase, punctuation stripped, size/unit tokens removed, bare
// numbers dropped, whitespace collapsed. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = sizePatternRegex.ReplaceAllString(s, " ")
	s = punctuationRegex.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if len(w) <= 1 {
			continue
		}
		if unitTokens[w] {
			continue
		}
		if isNumeric(w) {
			continue
		}
		kept = append(kept, w)
	}

	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(strings.Join(kept, " "), " "))
}

// Tokens returns the normalized tokens of a name or query. A result
// of length zero means the input carries no matchable signal.
func Tokens(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
