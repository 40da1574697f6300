// Package textnorm normalizes the short strings that flow through the mapper.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFC, drops control characters and trims whitespace.
// Case is preserved.
func Normalize(text string) string {
	normed := norm.NFC.String(text)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if r == '\n' || r == '\t' {
				return ' '
			}
			return -1
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}

// NormalizeAll normalizes each string and drops the ones left empty.
func NormalizeAll(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if n := Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Lower lower-cases text.
func Lower(text string) string {
	return strings.ToLower(text)
}

// Title upper-cases the first letter of every word and lower-cases the rest.
// A Caser is not safe for concurrent use, so one is built per call.
func Title(text string) string {
	return cases.Title(language.Russian).String(text)
}

// Contains reports whether the lower-cased haystack contains needle,
// lower-casing the needle first.
func Contains(lowerHaystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(lowerHaystack, strings.ToLower(needle))
}
