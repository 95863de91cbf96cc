// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

// Package fold normalizes text for accent- and case-insensitive matching.
//
// # Usage
//
// Catalog labels come in Spanish and Portuguese ("Eletrônicos", "Informática").
// Staff type them without accents, so both sides are folded before comparing.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// String folds s for comparison.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Collapses runs of whitespace and punctuation into a single space.
func String(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)

	return strings.Join(strings.FieldsFunc(result, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// Contains reports whether needle occurs in haystack after folding both.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(String(haystack), String(needle))
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
