package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText lowercases text and strips diacritics so that gazetteer and
// keyword matching treat "Valparaíso" and "valparaiso" as equal.
func NormalizeText(text string) string {
	lowered := strings.ToLower(text)
	normalized, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		return lowered
	}
	return normalized
}

// ExtractContext returns a bounded window of text around a position, with
// ellipses marking truncation. Used as explainability context for detected
// toponyms.
func ExtractContext(text string, position, window int) string {
	if position < 0 {
		position = 0
	}
	start := position - window
	if start < 0 {
		start = 0
	}
	end := position + window
	if end > len(text) {
		end = len(text)
	}
	if start > len(text) {
		start = len(text)
	}

	context := text[start:end]
	if start > 0 {
		context = "..." + context
	}
	if end < len(text) {
		context = context + "..."
	}
	return strings.TrimSpace(context)
}

// CountOccurrences counts case-insensitive, diacritics-insensitive
// occurrences of needle in haystack.
func CountOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(NormalizeText(haystack), NormalizeText(needle))
}

// Clamp01 bounds a value to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
