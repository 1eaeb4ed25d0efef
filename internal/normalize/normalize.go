// Package normalize turns raw per-page document text into a single cleaned
// line suitable for pattern matching.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical identifier labels produced by the synonym table.
const (
	LabelDNI       = "DNI"
	LabelCUIL      = "CUIL"
	LabelCUIT      = "CUIT"
	LabelCUIF      = "CUIF"
	LabelMatricula = "MATRICULA"
)

// maxPasses bounds the fixed-point loop in Text.
const maxPasses = 4

type rewrite struct {
	re   *regexp.Regexp
	repl string
	fn   func(string) string
}

func (r rewrite) apply(s string) string {
	if r.fn != nil {
		return r.re.ReplaceAllStringFunc(s, r.fn)
	}
	return r.re.ReplaceAllString(s, r.repl)
}

var (
	invisibleRe  = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF\uFFFD]")
	bulletRe     = regexp.MustCompile(`[•●▪■◦►▸‣⁃]`)
	watermarkRe  = regexp.MustCompile(`(?i)(?:escaneado\s+con\s+)?camscanner`)
	dashRe       = regexp.MustCompile(`[‐‑‒–—―]`)
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}\p{Cc}]+`)
	dateShapeRe  = regexp.MustCompile(`^\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}$`)
	digitRunRe   = regexp.MustCompile(`\d+(?:[.\-/]\d+)+`)

	// Ordinal markers are matched before NFKC folds "º" into "o".
	ordinals = []rewrite{
		{re: regexp.MustCompile(`N\s?[º°]\.?\s*:?\s*(\d)`), repl: "$1"},
		{re: regexp.MustCompile(`(?i)\b(?:nro|n[uú]mero|n[uú]m)\.?\s*:?\s*(\d)`), repl: "$1"},
	}

	synonyms = []rewrite{
		{re: regexp.MustCompile(`(?i)\bdocumento\s+nacional\s+de\s+identidad\b`), repl: LabelDNI},
		{re: regexp.MustCompile(`(?i)\bdocumento\s+nacional\b`), repl: LabelDNI},
		{re: regexp.MustCompile(`(?i)\bdocumento\s+de\s+identidad\b`), repl: LabelDNI},
		{re: regexp.MustCompile(`(?i)\bdocumento\b`), repl: LabelDNI},
		{re: regexp.MustCompile(`(?i)\bd\.\s?n\.\s?i\b\.?`), repl: LabelDNI},
		{re: regexp.MustCompile(`(?i)\bdni\b`), repl: LabelDNI},
		{
			re: regexp.MustCompile(`(?i)\bc\.?\s?u\.?\s?i\.?\s?[tlf]\b\.?`),
			fn: func(m string) string {
				letter := strings.ToUpper(strings.TrimRight(m, ". "))
				return "CUI" + letter[len(letter)-1:]
			},
		},
		{re: regexp.MustCompile(`(?i)\bmatr[ií]cula\b`), repl: LabelMatricula},
		// "M.P." but not an initial before a P-surname ("M. Pérez")
		{
			re: regexp.MustCompile(`\bM\.\s?P(?:\.|[^\pL.]|$)`),
			fn: func(m string) string {
				rest := strings.TrimPrefix(m[strings.LastIndexByte(m, 'P')+1:], ".")
				return LabelMatricula + " " + rest
			},
		},
		{re: regexp.MustCompile(`\bMP\.?\s*(\d)`), repl: LabelMatricula + " $1"},
	}

	labelAlt = `(DNI|CUIL|CUIT|CUIF|MATRICULA)`

	labelCleanup = []rewrite{
		// "DNI:" / "DNI -" / "CUIT#"
		{re: regexp.MustCompile(`\b` + labelAlt + `\s*[:#\-]+\s*`), repl: "$1 "},
		// spaced CUIT/CUIL shape "20 - 12345678 - 6"
		{re: regexp.MustCompile(`\b(\d{2})\s*-\s*(\d{7,8})\s*-\s*(\d)\b`), repl: "$1$2$3"},
		// short noise between a label and its number: "CUIT NS 2032..."
		{re: regexp.MustCompile(`\b` + labelAlt + `\s+[A-Za-z]{1,3}(?:\.\s*|\s+)(\d{4,})`), repl: "$1 $2"},
		{re: regexp.MustCompile(`[(\[{"“”«»]\s*(\d+)\s*[)\]}"“”«»]`), repl: " $1 "},
	}
)

// Pages concatenates the per-page texts in order and normalizes the result.
func Pages(pages []string) string {
	return Text(strings.Join(pages, "\n"))
}

// Text normalizes s. The transformation is applied until it reaches a fixed
// point, so Text(Text(s)) == Text(s).
func Text(s string) string {
	cur := s
	for i := 0; i < maxPasses; i++ {
		next := pass(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

func pass(s string) string {
	if s == "" {
		return ""
	}
	s = invisibleRe.ReplaceAllString(s, "")
	for _, r := range ordinals {
		s = r.apply(s)
	}
	s = norm.NFKC.String(s)
	s = bulletRe.ReplaceAllString(s, " ")
	s = watermarkRe.ReplaceAllString(s, " ")
	s = dashRe.ReplaceAllString(s, "-")
	for _, r := range synonyms {
		s = r.apply(s)
	}
	for _, r := range labelCleanup {
		s = r.apply(s)
	}
	s = digitRunRe.ReplaceAllStringFunc(s, joinDigitRun)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// joinDigitRun drops separators inside a digit run unless the run is a date
// or too short to be an identifier.
func joinDigitRun(run string) string {
	if dateShapeRe.MatchString(run) {
		return run
	}
	joined := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, run)
	if len(joined) <= 3 {
		return run
	}
	return joined
}
