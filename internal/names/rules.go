package names

// Matcher is one contextual rule. TryMatch inspects the token at pos and
// returns the name it anchors, if any.
type Matcher interface {
	Origin() Origin
	TryMatch(doc *Document, pos int) (Candidate, bool)
}

// Matchers returns the contextual rules in priority order.
func Matchers(cfg Config) []Matcher {
	base := ruleBase{cfg: cfg, lex: newLexicon(cfg)}
	return []Matcher{
		anchoredMatcher{base},
		contraMatcher{base},
		captionMatcher{base},
		titleCaseMatcher{base},
		preCaptionMatcher{base},
		commaJudicialMatcher{base},
	}
}

type ruleBase struct {
	cfg Config
	lex *lexicon
}

func (b ruleBase) candidate(doc *Document, from, to int, origin Origin) (Candidate, bool) {
	c := newCandidate(doc, from, to, origin, b.cfg.ContextRadius)
	c.Evidence = EvidenceRule
	return c, true
}

// forwardRun finds the first run of at least two name words starting at or
// after from and ending before limit.
func (b ruleBase) forwardRun(doc *Document, from, limit int) (int, int, bool) {
	toks := doc.Tokens
	for i := from; i < len(toks) && toks[i].Span.End <= limit; {
		if !b.lex.nameWord(toks[i]) {
			i++
			continue
		}
		j := i
		for j < len(toks) && toks[j].Span.End <= limit && b.lex.nameWord(toks[j]) {
			j++
		}
		if j-i >= 2 {
			return i, min(j, i+b.cfg.Natural.MaxTokens) - 1, true
		}
		i = j
	}
	return 0, 0, false
}

// backwardRun finds the last run of at least two name words ending before
// index before and starting at or after limit.
func (b ruleBase) backwardRun(doc *Document, before, limit int) (int, int, bool) {
	toks := doc.Tokens
	for i := before - 1; i >= 0 && toks[i].Span.Start >= limit; {
		if !b.lex.nameWord(toks[i]) {
			i--
			continue
		}
		k := i
		for k >= 0 && toks[k].Span.Start >= limit && b.lex.nameWord(toks[k]) {
			k--
		}
		if i-k >= 2 {
			return max(k+1, i-b.cfg.Natural.MaxTokens+1), i, true
		}
		i = k
	}
	return 0, 0, false
}

// anchoredMatcher: a right-looking cue ("ciudadano", "Dr.") takes the next
// name run; a left-looking cue ("DNI", "CUIT") takes the closest run before it.
type anchoredMatcher struct{ ruleBase }

func (anchoredMatcher) Origin() Origin { return OriginAnchored }

func (m anchoredMatcher) TryMatch(doc *Document, pos int) (Candidate, bool) {
	t := doc.Tokens[pos]
	if t.Kind != Word {
		return Candidate{}, false
	}
	switch {
	case m.lex.right[t.Folded]:
		if from, to, ok := m.forwardRun(doc, pos+1, t.Span.End+m.cfg.Natural.Window); ok {
			return m.candidate(doc, from, to, OriginAnchored)
		}
	case m.lex.left[t.Folded]:
		if from, to, ok := m.backwardRun(doc, pos, t.Span.Start-m.cfg.Natural.Window); ok {
			return m.candidate(doc, from, to, OriginAnchored)
		}
	}
	return Candidate{}, false
}

// contraMatcher: two or more uppercase words right after "contra".
type contraMatcher struct{ ruleBase }

func (contraMatcher) Origin() Origin { return OriginContra }

func (m contraMatcher) TryMatch(doc *Document, pos int) (Candidate, bool) {
	toks := doc.Tokens
	if toks[pos].Kind != Word || toks[pos].Folded != "contra" {
		return Candidate{}, false
	}
	j := pos + 1
	for j < len(toks) && j-pos-1 < m.cfg.Natural.MaxTokens && toks[j].IsUpper() && !m.lex.labels[toks[j].Folded] {
		j++
	}
	if j-pos-1 < 2 {
		return Candidate{}, false
	}
	return m.candidate(doc, pos+1, j-1, OriginContra)
}

// captionMatcher: the party named between "C/" and the next "S/".
type captionMatcher struct{ ruleBase }

func (captionMatcher) Origin() Origin { return OriginCaption }

func (m captionMatcher) TryMatch(doc *Document, pos int) (Candidate, bool) {
	toks := doc.Tokens
	if !toks[pos].IsMarker("c") {
		return Candidate{}, false
	}
	end := -1
	for k := pos + 1; k < len(toks) && k <= pos+m.cfg.CaptionTokens; k++ {
		if toks[k].IsMarker("s") {
			end = k
			break
		}
		if toks[k].IsMarker("c") {
			return Candidate{}, false
		}
	}
	if end < 0 {
		return Candidate{}, false
	}
	from, to := pos+1, end-1
	for from <= to && toks[from].Kind != Word {
		from++
	}
	for to >= from && toks[to].Kind != Word {
		to--
	}
	if from > to || !toks[from].IsCapitalized() {
		return Candidate{}, false
	}
	words := 0
	for k := from; k <= to; k++ {
		if toks[k].Kind == Word {
			words++
		}
	}
	if words > m.cfg.Judicial.MaxTokens {
		return Candidate{}, false
	}
	return m.candidate(doc, from, to, OriginCaption)
}

// titleCaseMatcher: 2..MaxTokens Title-Case words, each at least two letters.
type titleCaseMatcher struct{ ruleBase }

func (titleCaseMatcher) Origin() Origin { return OriginJudicialTitle }

func (m titleCaseMatcher) title(t Token) bool {
	return t.IsTitle() && !m.lex.anchors[t.Folded]
}

func (m titleCaseMatcher) TryMatch(doc *Document, pos int) (Candidate, bool) {
	toks := doc.Tokens
	if !m.title(toks[pos]) || (pos > 0 && m.title(toks[pos-1])) {
		return Candidate{}, false
	}
	j := pos
	for j < len(toks) && j-pos < m.cfg.Natural.MaxTokens && m.title(toks[j]) {
		j++
	}
	if j-pos < 2 {
		return Candidate{}, false
	}
	return m.candidate(doc, pos, j-1, OriginJudicialTitle)
}

// preCaptionMatcher: the party named immediately before "C/", commas
// allowed between its words.
type preCaptionMatcher struct{ ruleBase }

func (preCaptionMatcher) Origin() Origin { return OriginPreCaption }

func (m preCaptionMatcher) TryMatch(doc *Document, pos int) (Candidate, bool) {
	toks := doc.Tokens
	if !toks[pos].IsMarker("c") {
		return Candidate{}, false
	}
	limit := toks[pos].Span.Start - m.cfg.Natural.Window
	k, words := pos-1, 0
	for k >= 0 && toks[k].Span.Start >= limit && words < m.cfg.Judicial.MaxTokens {
		switch {
		case m.lex.nameWord(toks[k]):
			words++
			k--
			continue
		case toks[k].Text == "," && words > 0 && k > 0 && m.lex.nameWord(toks[k-1]):
			k--
			continue
		}
		break
	}
	if words == 0 {
		return Candidate{}, false
	}
	return m.candidate(doc, k+1, pos-1, OriginPreCaption)
}

// commaJudicialMatcher: the comma form, accepted only near a caption cue
// ("C/", "autos", "caratulados", ...).
type commaJudicialMatcher struct{ ruleBase }

func (commaJudicialMatcher) Origin() Origin { return OriginCommaJudicial }

func (m commaJudicialMatcher) TryMatch(doc *Document, pos int) (Candidate, bool) {
	from, to, ok := commaAround(doc.Tokens, pos)
	if !ok {
		return Candidate{}, false
	}
	s := doc.Tokens[from].Span
	s.End = doc.Tokens[to].Span.End
	for _, t := range doc.Tokens {
		if t.Kind != Word && t.Kind != Marker {
			continue
		}
		if m.lex.caption[t.Folded] && t.Span.Distance(s) <= m.cfg.Judicial.Window {
			return m.candidate(doc, from, to, OriginCommaJudicial)
		}
	}
	return Candidate{}, false
}
