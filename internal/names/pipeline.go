package names

import (
	"context"
	"unicode"
	"unicode/utf8"

	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// Pipeline chains the generator, the rule engine and the refiner.
type Pipeline struct {
	cfg     Config
	lex     *lexicon
	gen     *Generator
	rules   *RuleEngine
	refiner *Refiner
}

func NewPipeline(cfg Config, opts ...Option) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		lex:     newLexicon(cfg),
		gen:     NewGenerator(cfg),
		rules:   NewRuleEngine(cfg, opts...),
		refiner: NewRefiner(cfg),
	}
}

// Run returns the refined names of doc ordered by position.
func (p *Pipeline) Run(ctx context.Context, doc *Document) []Candidate {
	generated := p.gen.Generate(doc)
	resolved := p.rules.Resolve(ctx, doc, generated)
	return p.refiner.Refine(doc, resolved)
}

// NameShapedRuns returns every run of two or more name words, whether or not
// it survived as a candidate.
func (p *Pipeline) NameShapedRuns(doc *Document) []span.Span {
	var out []span.Span
	toks := doc.Tokens
	for i := 0; i < len(toks); {
		if !p.lex.nameWord(toks[i]) {
			i++
			continue
		}
		j := i
		for j < len(toks) && p.lex.nameWord(toks[j]) {
			j++
		}
		if j-i >= 2 {
			out = append(out, span.Span{Start: toks[i].Span.Start, End: toks[j-1].Span.End})
		}
		i = j
	}
	return out
}

// EntityNameBefore recovers a company or institution name ending right
// before offset ("DISTRIBUIDORA DEL SUR S.A. CUIT ..."). Entity names may
// hold connectors, initials, "." and "&", up to Judicial.MaxTokens words
// within Judicial.Window bytes.
func (p *Pipeline) EntityNameBefore(doc *Document, offset int) (Candidate, bool) {
	toks := doc.Tokens
	end := doc.indexAtOrAfter(offset) - 1
	limit := offset - p.cfg.Judicial.Window
	k, words := end, 0
	for k >= 0 && toks[k].Span.Start >= limit && words < p.cfg.Judicial.MaxTokens {
		t := toks[k]
		if p.lex.labels[t.Folded] {
			break
		}
		if p.entityToken(t) {
			if t.Kind == Word {
				words++
			}
			k--
			continue
		}
		break
	}
	from, to := k+1, end
	for from <= to && !isUpperInitial(toks[from]) {
		from++
	}
	for to >= from && (toks[to].Kind == Word && p.lex.connector(toks[to]) || toks[to].Text == "&" || toks[to].Text == ",") {
		to--
	}
	if from > to {
		return Candidate{}, false
	}
	hasName := false
	for i := from; i <= to; i++ {
		if toks[i].IsCapitalized() {
			hasName = true
			break
		}
	}
	if !hasName {
		return Candidate{}, false
	}
	return newCandidate(doc, from, to, OriginEntity, p.cfg.ContextRadius), true
}

func (p *Pipeline) entityToken(t Token) bool {
	switch t.Kind {
	case Word:
		return isUpperInitial(t) || p.lex.connector(t)
	case Punct:
		return t.Text == "." || t.Text == "&" || t.Text == ","
	}
	return false
}

func isUpperInitial(t Token) bool {
	if t.Kind != Word {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsUpper(r)
}
