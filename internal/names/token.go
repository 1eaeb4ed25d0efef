package names

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a3tai/mcp-pdf-identity/internal/fold"
	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

type TokenKind int

const (
	Word TokenKind = iota
	Number
	Punct
	// Marker is a judicial caption marker: "C/" (contra) or "S/" (sobre).
	Marker
)

// Token is a word, number, punctuation mark or caption marker of a
// normalized text.
type Token struct {
	Text string
	Kind TokenKind
	Span span.Span
	// Folded is the lowercase, accent-free form without a trailing period.
	Folded string
}

// IsUpper reports an all-uppercase word of at least two letters.
func (t Token) IsUpper() bool {
	if t.Kind != Word || letterCount(t.Text) < 2 {
		return false
	}
	for _, r := range t.Text {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// IsCapitalized reports a word of at least two letters starting uppercase.
func (t Token) IsCapitalized() bool {
	if t.Kind != Word || letterCount(t.Text) < 2 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsUpper(r)
}

// IsTitle reports a Title-Case word: an uppercase initial followed by
// lowercase letters. Hyphen and apostrophe parts are checked on their own
// ("Pérez-Gómez", "D'Angelo").
func (t Token) IsTitle() bool {
	if !t.IsCapitalized() {
		return false
	}
	partStart, hasLower := true, false
	for _, r := range t.Text {
		switch {
		case r == '-' || r == '\'' || r == '’':
			partStart = true
		case partStart:
			if !unicode.IsUpper(r) {
				return false
			}
			partStart = false
		case unicode.IsLower(r):
			hasLower = true
		case unicode.Is(unicode.Mn, r):
		default:
			return false
		}
	}
	return hasLower
}

func (t Token) IsMarker(letter string) bool {
	return t.Kind == Marker && strings.EqualFold(t.Text[:1], letter)
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Document is a normalized text with its tokens.
type Document struct {
	Text   string
	Tokens []Token
}

func NewDocument(text string) *Document {
	return &Document{Text: text, Tokens: Tokenize(text)}
}

// Tokenize splits text into words (letters with inner hyphens or
// apostrophes), digit runs, caption markers and single punctuation marks.
func Tokenize(text string) []Token {
	var toks []Token
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case unicode.IsLetter(r):
			end := scanWord(text, i)
			if end-i == 1 && strings.ContainsRune("CcSs", r) && end < len(text) && text[end] == '/' {
				toks = append(toks, newToken(text, i, end+1, Marker))
				i = end + 1
				continue
			}
			toks = append(toks, newToken(text, i, end, Word))
			i = end
		case unicode.IsDigit(r):
			end := i
			for end < len(text) {
				d, n := utf8.DecodeRuneInString(text[end:])
				if !unicode.IsDigit(d) {
					break
				}
				end += n
			}
			toks = append(toks, newToken(text, i, end, Number))
			i = end
		default:
			toks = append(toks, newToken(text, i, i+size, Punct))
			i += size
		}
	}
	return toks
}

func scanWord(text string, i int) int {
	end := i
	for end < len(text) {
		r, n := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) {
			end += n
			continue
		}
		if r == '-' || r == '\'' || r == '’' {
			next, _ := utf8.DecodeRuneInString(text[end+n:])
			if end+n < len(text) && unicode.IsLetter(next) {
				end += n
				continue
			}
		}
		break
	}
	return end
}

func newToken(text string, start, end int, kind TokenKind) Token {
	s := text[start:end]
	return Token{
		Text:   s,
		Kind:   kind,
		Span:   span.Span{Start: start, End: end},
		Folded: fold.Fold(strings.TrimRight(s, ".")),
	}
}

// indexAtOrAfter returns the first token starting at or after offset.
func (d *Document) indexAtOrAfter(offset int) int {
	for i, t := range d.Tokens {
		if t.Span.Start >= offset {
			return i
		}
	}
	return len(d.Tokens)
}

// slice returns the text covered by tokens[from..to].
func (d *Document) slice(from, to int) (string, span.Span) {
	s := span.Span{Start: d.Tokens[from].Span.Start, End: d.Tokens[to].Span.End}
	return d.Text[s.Start:s.End], s
}
