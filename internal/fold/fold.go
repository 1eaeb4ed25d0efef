// Package fold provides the case- and accent-insensitive keys used to compare
// names and vocabulary words.
package fold

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics ("LÓPEZ" -> "lopez"). The ñ is
// folded to n as well.
func Fold(s string) string {
	// transform.Chain keeps per-call state, so it is built on every call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Tokens folds s and splits it into letter/digit words, dropping punctuation.
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Key is the order-insensitive token multiset of s, used to decide whether two
// mentions name the same person.
func Key(s string) string {
	toks := Tokens(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// Clean folds s, turns punctuation into spaces and collapses whitespace.
func Clean(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Set builds a lookup set of folded words.
func Set(words ...[]string) map[string]bool {
	out := make(map[string]bool)
	for _, list := range words {
		for _, w := range list {
			if f := Fold(strings.TrimSpace(w)); f != "" {
				out[f] = true
			}
		}
	}
	return out
}
