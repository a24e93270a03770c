package intelligence

import (
	"strings"
	"unicode/utf8"
)

// Tokenize lowercases text, splits it on whitespace and keeps tokens of at
// least minLen runes. Punctuation stays attached to its token.
func Tokenize(text string, minLen int) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

// ContainsAny reports whether any needle is a substring of haystack.
func ContainsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// CountSubstrings counts how many needles occur in haystack. Each needle
// counts at most once.
func CountSubstrings(haystack string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			n++
		}
	}
	return n
}
