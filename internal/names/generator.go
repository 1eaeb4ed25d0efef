package names

// Generator emits raw name candidates from three independent pattern
// families. Overlaps between families are kept; later stages resolve them.
type Generator struct {
	cfg Config
	lex *lexicon
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg, lex: newLexicon(cfg)}
}

func (g *Generator) Generate(doc *Document) []Candidate {
	var out []Candidate
	out = append(out, g.upperRuns(doc)...)
	out = append(out, g.mixedRuns(doc)...)
	out = append(out, g.commaForms(doc)...)
	return out
}

// upperRuns: 2..MaxTokens consecutive all-uppercase words.
func (g *Generator) upperRuns(doc *Document) []Candidate {
	var out []Candidate
	toks := doc.Tokens
	for i := 0; i < len(toks); {
		if !toks[i].IsUpper() {
			i++
			continue
		}
		j := i
		for j < len(toks) && toks[j].IsUpper() {
			j++
		}
		for k := i; k < j; k += g.cfg.Natural.MaxTokens {
			end := min(k+g.cfg.Natural.MaxTokens, j)
			if end-k >= 2 {
				out = append(out, newCandidate(doc, k, end-1, OriginUpperRun, g.cfg.ContextRadius))
			}
		}
		i = j
	}
	return out
}

// mixedRuns: 1..MaxTokens capitalized words, lowercase connectors allowed
// inside, with at least one word that is not all uppercase.
func (g *Generator) mixedRuns(doc *Document) []Candidate {
	var out []Candidate
	toks := doc.Tokens
	for i := 0; i < len(toks); {
		if !toks[i].IsCapitalized() {
			i++
			continue
		}
		j := g.extendMixed(toks, i)
		mixed := false
		for k := i; k < j; k++ {
			if toks[k].IsCapitalized() && !toks[k].IsUpper() {
				mixed = true
				break
			}
		}
		if mixed {
			for k := i; k < j; k += g.cfg.Natural.MaxTokens {
				end := min(k+g.cfg.Natural.MaxTokens, j)
				out = append(out, newCandidate(doc, k, end-1, OriginMixedCase, g.cfg.ContextRadius))
			}
		}
		i = j
	}
	return out
}

func (g *Generator) extendMixed(toks []Token, i int) int {
	j := i + 1
	for j < len(toks) {
		if toks[j].IsCapitalized() {
			j++
			continue
		}
		k := j
		for k < len(toks) && g.lex.connector(toks[k]) {
			k++
		}
		if k > j && k < len(toks) && toks[k].IsCapitalized() {
			j = k + 1
			continue
		}
		break
	}
	return j
}

// commaForms: "SURNAME(S), GIVEN NAME(S)" with one to three uppercase words
// on each side.
func (g *Generator) commaForms(doc *Document) []Candidate {
	var out []Candidate
	for c := range doc.Tokens {
		if from, to, ok := commaAround(doc.Tokens, c); ok {
			out = append(out, newCandidate(doc, from, to, OriginComma, g.cfg.ContextRadius))
		}
	}
	return out
}

// commaAround matches the comma form around the comma at index c.
func commaAround(toks []Token, c int) (from, to int, ok bool) {
	if toks[c].Kind != Punct || toks[c].Text != "," {
		return 0, 0, false
	}
	from = c
	for from-1 >= 0 && c-from < 3 && toks[from-1].IsUpper() {
		from--
	}
	to = c
	for to+1 < len(toks) && to-c < 3 && toks[to+1].IsUpper() {
		to++
	}
	if from == c || to == c {
		return 0, 0, false
	}
	return from, to, true
}
