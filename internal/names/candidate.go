package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// Origin records which pattern family or contextual rule produced a
// candidate.
type Origin string

const (
	OriginUpperRun  Origin = "uppercase_run"
	OriginMixedCase Origin = "mixed_case"
	OriginComma     Origin = "comma_form"

	OriginAnchored      Origin = "anchored_proximity"
	OriginContra        Origin = "post_contra"
	OriginCaption       Origin = "caption_between_markers"
	OriginJudicialTitle Origin = "judicial_title_case"
	OriginPreCaption    Origin = "pre_caption_marker"
	OriginCommaJudicial Origin = "comma_judicial"

	OriginEntity Origin = "entity_name"
)

// Evidence tells how a generated candidate was confirmed.
type Evidence string

const (
	EvidenceRule   Evidence = "rule"
	EvidenceAnchor Evidence = "anchor"
	EvidenceNER    Evidence = "ner"
)

// Candidate is a name found in a Document.
type Candidate struct {
	Text     string    `json:"nombre"`
	Span     span.Span `json:"-"`
	Origin   Origin    `json:"origen"`
	Evidence Evidence  `json:"evidencia,omitempty"`
	Context  string    `json:"contexto"`

	// token range [from, to] in the Document
	from, to int
}

func newCandidate(doc *Document, from, to int, origin Origin, radius int) Candidate {
	raw, s := doc.slice(from, to)
	if origin != OriginEntity {
		raw = dropCommas(raw)
	}
	return Candidate{
		Text:    Display(raw),
		Span:    s,
		Origin:  origin,
		Context: span.Window(doc.Text, s, radius),
		from:    from,
		to:      to,
	}
}

// dropCommas turns "PEREZ, JUAN" into "PEREZ JUAN"; the surname stays first,
// as in the other name families.
func dropCommas(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(s, ",", " ")), " ")
}

// Words returns the word tokens of the candidate.
func (c Candidate) Words(doc *Document) []Token {
	var out []Token
	for i := c.from; i <= c.to && i < len(doc.Tokens); i++ {
		if doc.Tokens[i].Kind == Word {
			out = append(out, doc.Tokens[i])
		}
	}
	return out
}

// Display title-cases names written entirely in uppercase and leaves mixed
// case untouched.
func Display(s string) string {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return s
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if !hasLetter {
		return s
	}
	return cases.Title(language.Spanish).String(strings.ToLower(s))
}
