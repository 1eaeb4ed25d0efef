package fuzzy

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/a3tai/mcp-pdf-identity/internal/fold"
)

// Similarity scores two values in [0,100].
type Similarity func(reference, candidate string) float64

// NormalizeIdentifier folds v and keeps only letters and digits.
func NormalizeIdentifier(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, fold.Fold(v))
}

// IdentifierSimilarity is 100 for equal values and otherwise the share of
// equal positions over the longer value, so length differences count as
// mismatches.
func IdentifierSimilarity(a, b string) float64 {
	ra, rb := []rune(NormalizeIdentifier(a)), []rune(NormalizeIdentifier(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if string(ra) == string(rb) {
		return 100
	}
	longest := max(len(ra), len(rb))
	same := 0
	for i := 0; i < min(len(ra), len(rb)); i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return 100 * float64(same) / float64(longest)
}

// NameSimilarity compares folded names by edit distance, and again with
// both token lists sorted, weighting the reordered score by token overlap.
// The higher of the two wins.
func NameSimilarity(a, b string) float64 {
	ta, tb := fold.Tokens(a), fold.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	direct := ratio(strings.Join(ta, " "), strings.Join(tb, " "))

	sa, sb := sortedCopy(ta), sortedCopy(tb)
	reordered := ratio(strings.Join(sa, " "), strings.Join(sb, " ")) * (0.5 + 0.5*jaccard(ta, tb))

	return max(direct, reordered)
}

func ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	return 100 * (1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest))
}

func jaccard(a, b []string) float64 {
	sa := fold.Set(a)
	sb := fold.Set(b)
	inter := 0
	for w := range sa {
		if sb[w] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
