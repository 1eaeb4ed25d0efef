package names

import "sort"

// Refiner cleans resolved candidates: it strips cue, title and label words
// and leading/trailing articles, deduplicates overlapping mentions keeping
// the longer one, and removes institutional vocabulary.
type Refiner struct {
	cfg Config
	lex *lexicon
}

func NewRefiner(cfg Config) *Refiner {
	return &Refiner{cfg: cfg, lex: newLexicon(cfg)}
}

func (r *Refiner) Refine(doc *Document, cands []Candidate) []Candidate {
	var trimmed []Candidate
	for _, c := range cands {
		if t, ok := r.trim(doc, c, r.anchorOrEdge); ok {
			trimmed = append(trimmed, t)
		}
	}

	var filtered []Candidate
	for _, c := range r.dedup(doc, trimmed) {
		if t, ok := r.trim(doc, c, r.nonName); ok {
			filtered = append(filtered, t)
		}
	}
	return r.dedup(doc, filtered)
}

func (r *Refiner) anchorOrEdge(t Token) bool {
	return t.Kind != Word || r.lex.anchors[t.Folded] || r.lex.edges[t.Folded]
}

func (r *Refiner) nonName(t Token) bool {
	return r.anchorOrEdge(t) || r.lex.vocab[t.Folded]
}

// trim drops tokens matching strip from both edges. It fails when nothing
// is left.
func (r *Refiner) trim(doc *Document, c Candidate, strip func(Token) bool) (Candidate, bool) {
	from, to := c.from, c.to
	for from <= to && strip(doc.Tokens[from]) {
		from++
	}
	for to >= from && strip(doc.Tokens[to]) {
		to--
	}
	if from > to {
		return Candidate{}, false
	}
	if from == c.from && to == c.to {
		return c, true
	}
	out := newCandidate(doc, from, to, c.Origin, r.cfg.ContextRadius)
	out.Evidence = c.Evidence
	return out, true
}

type dedupEntry struct {
	c     Candidate
	words map[string]bool
	order int
}

// dedup drops every candidate whose words are a subset of a longer
// candidate at the same location.
func (r *Refiner) dedup(doc *Document, cands []Candidate) []Candidate {
	entries := make([]dedupEntry, len(cands))
	for i, c := range cands {
		words := make(map[string]bool)
		for _, w := range c.Words(doc) {
			words[w.Folded] = true
		}
		entries[i] = dedupEntry{c: c, words: words, order: i}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if len(a.words) != len(b.words) {
			return len(a.words) > len(b.words)
		}
		if a.c.Span.Len() != b.c.Span.Len() {
			return a.c.Span.Len() > b.c.Span.Len()
		}
		if a.c.Span.Start != b.c.Span.Start {
			return a.c.Span.Start < b.c.Span.Start
		}
		return a.order < b.order
	})

	var kept []dedupEntry
	for _, e := range entries {
		dup := false
		for _, k := range kept {
			if k.c.Span.Distance(e.c.Span) <= r.cfg.DedupDistance && subset(e.words, k.words) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, e)
		}
	}

	out := make([]Candidate, len(kept))
	for i, k := range kept {
		out[i] = k.c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Span.Start < out[j].Span.Start })
	return out
}

func subset(a, b map[string]bool) bool {
	for w := range a {
		if !b[w] {
			return false
		}
	}
	return true
}
