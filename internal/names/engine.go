package names

import (
	"context"
	"sort"
	"time"

	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/ner"
	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// RuleEngine runs the contextual rules in priority order and confirms or
// discards generated candidates.
type RuleEngine struct {
	cfg        Config
	lex        *lexicon
	matchers   []Matcher
	recognizer ner.Recognizer
	nerTimeout time.Duration
	log        logger.Logger
}

type Option func(*RuleEngine)

// WithRecognizer enables the NER fallback for candidates no rule confirms.
func WithRecognizer(r ner.Recognizer, timeout time.Duration) Option {
	return func(e *RuleEngine) {
		e.recognizer = r
		e.nerTimeout = timeout
	}
}

func WithLogger(l logger.Logger) Option {
	return func(e *RuleEngine) { e.log = l }
}

func NewRuleEngine(cfg Config, opts ...Option) *RuleEngine {
	e := &RuleEngine{
		cfg:        cfg,
		lex:        newLexicon(cfg),
		matchers:   Matchers(cfg),
		recognizer: ner.Nop{},
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve returns the rule matches plus the generated candidates confirmed by
// a nearby cue word or by the recognizer. A text region claimed by a rule is
// not available to lower-priority rules or to generated candidates.
func (e *RuleEngine) Resolve(ctx context.Context, doc *Document, generated []Candidate) []Candidate {
	var (
		accepted []Candidate
		claimed  []span.Span
	)
	for _, m := range e.matchers {
		var mine []span.Span
		for pos := range doc.Tokens {
			c, ok := m.TryMatch(doc, pos)
			if !ok || overlapsAny(c.Span, claimed) {
				continue
			}
			accepted = append(accepted, c)
			mine = append(mine, c.Span)
		}
		claimed = append(claimed, mine...)
	}

	cues := e.cueSpans(doc)
	var pending []Candidate
	for _, g := range generated {
		if overlapsAny(g.Span, claimed) {
			continue
		}
		if len(g.Words(doc)) >= 2 && nearAny(g.Span, cues, e.cfg.AnchorWindow) {
			g.Evidence = EvidenceAnchor
			accepted = append(accepted, g)
			continue
		}
		pending = append(pending, g)
	}

	if len(pending) > 0 {
		persons := ner.BestEffort(ctx, e.recognizer, doc.Text, e.nerTimeout, e.log)
		for _, g := range pending {
			if containedInAny(g.Span, persons) {
				g.Evidence = EvidenceNER
				accepted = append(accepted, g)
			}
		}
		e.log.Debug("name candidates resolved",
			"rules_and_anchors", len(accepted), "pending", len(pending), "ner_spans", len(persons))
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Span.Start < accepted[j].Span.Start
	})
	return accepted
}

func (e *RuleEngine) cueSpans(doc *Document) []span.Span {
	var out []span.Span
	for _, t := range doc.Tokens {
		if e.lex.cue(t) {
			out = append(out, t.Span)
		}
	}
	return out
}

func overlapsAny(s span.Span, spans []span.Span) bool {
	for _, o := range spans {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}

func nearAny(s span.Span, spans []span.Span, distance int) bool {
	for _, o := range spans {
		if s.Distance(o) <= distance {
			return true
		}
	}
	return false
}

func containedInAny(s span.Span, spans []span.Span) bool {
	for _, o := range spans {
		if o.Contains(s) {
			return true
		}
	}
	return false
}
