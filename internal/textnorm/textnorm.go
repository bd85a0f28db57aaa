// Package textnorm folds free text into the comparable forms used by date
// resolution and export deduplication.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespace   = regexp.MustCompile(`[\s\p{Z}]+`)
	matchExclude = regexp.MustCompile(`[^\p{L}\p{N}\s/.\-]`)
)

// Compact collapses runs of whitespace, including Unicode spaces such as
// U+00A0, to a single ASCII space and trims the result.
func Compact(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Fold lower-cases s and strips combining diacritical marks ("é" -> "e").
// Whitespace is left untouched.
func Fold(s string) string {
	return StripMarks(strings.ToLower(s))
}

// StripMarks removes combining diacritical marks and keeps letter case.
func StripMarks(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain keeps per-call state, so it is built on every call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return stripped
}

// Normalize folds s and collapses its whitespace.
func Normalize(s string) string {
	return Compact(Fold(s))
}

// ForMatch normalizes s and replaces every rune that is not a letter, digit,
// whitespace, slash, dot or hyphen with a space.
func ForMatch(s string) string {
	return Compact(matchExclude.ReplaceAllString(Fold(Compact(s)), " "))
}
