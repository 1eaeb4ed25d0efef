// Package extract runs the identity extraction pipeline over a document and
// builds the reports returned to callers.
package extract

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-pdf-identity/internal/fuzzy"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/names"
	"github.com/a3tai/mcp-pdf-identity/internal/ner"
	"github.com/a3tai/mcp-pdf-identity/internal/normalize"
	"github.com/a3tai/mcp-pdf-identity/internal/persons"
	"github.com/a3tai/mcp-pdf-identity/internal/reference"
	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// Engine is safe for concurrent use; it holds only read-only configuration.
type Engine struct {
	cfg        Config
	extractor  *identifier.Extractor
	names      *names.Pipeline
	aggregator *persons.Aggregator
	comparator *fuzzy.Comparator
	log        logger.Logger
}

type options struct {
	recognizer ner.Recognizer
	log        logger.Logger
}

type Option func(*options)

// WithRecognizer sets the NER capability used to confirm names no rule
// accepts.
func WithRecognizer(r ner.Recognizer) Option {
	return func(o *options) { o.recognizer = r }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// NewEngine validates cfg and builds the pipeline stages.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{recognizer: ner.Nop{}, log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	pipeline := names.NewPipeline(cfg.Names,
		names.WithRecognizer(o.recognizer, cfg.NERTimeout),
		names.WithLogger(o.log))
	return &Engine{
		cfg:        cfg,
		extractor:  identifier.NewExtractor(cfg.Identifier),
		names:      pipeline,
		aggregator: persons.NewAggregator(cfg.Persons, pipeline),
		comparator: fuzzy.NewComparator(cfg.Fuzzy),
		log:        o.log,
	}, nil
}

func (e *Engine) Config() Config { return e.cfg }

// Result holds everything one extraction produced.
type Result struct {
	Text        string
	Identifiers []identifier.Candidate
	Names       []names.Candidate
	Persons     []persons.Record
}

// Extract normalizes the page texts and runs identifier and name extraction
// side by side before aggregating persons. It fails only on empty input or a
// cancelled context; partial results are never returned.
func (e *Engine) Extract(ctx context.Context, pages []string) (*Result, error) {
	text := normalize.Pages(pages)
	if strings.TrimSpace(text) == "" {
		return nil, NewInputError(ErrorEmptyDocument, "document has no text").
			WithContext("pages", len(pages))
	}
	doc := names.NewDocument(text)

	var (
		ids   []identifier.Candidate
		cands []names.Candidate
		runs  []span.Span
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids = e.extractor.Extract(text)
		return nil
	})
	g.Go(func() error {
		cands = e.names.Run(gctx, doc)
		runs = e.names.NameShapedRuns(doc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Text:        text,
		Identifiers: ids,
		Names:       cands,
		Persons:     e.aggregator.Aggregate(doc, cands, ids, runs),
	}
	e.log.Debug("extraction finished",
		"chars", len(text),
		"identifiers", len(ids),
		"names", len(cands),
		"persons", len(res.Persons))
	return res, nil
}

// Compare extracts pages and, when fields is not nil, compares every
// reference field against the extracted pool of its kind.
func (e *Engine) Compare(ctx context.Context, pages []string, fields []reference.Field) (*Report, error) {
	res, err := e.Extract(ctx, pages)
	if err != nil {
		return nil, err
	}
	report := NewReport(res)
	if fields == nil {
		return report, nil
	}
	report.ComparisonPerformed = true
	report.ComparisonResult = e.CompareFields(res, fields)
	return report, nil
}

// CompareFields scores each field against res, one result per field.
func (e *Engine) CompareFields(res *Result, fields []reference.Field) []fuzzy.Result {
	out := make([]fuzzy.Result, 0, len(fields))
	for _, f := range fields {
		pool, sim := e.pool(res, f.Kind)
		out = append(out, e.comparator.Compare(f.Name, f.Value, pool, sim))
	}
	return out
}

func (e *Engine) pool(res *Result, kind reference.Kind) ([]string, fuzzy.Similarity) {
	if kind == reference.KindName {
		return namePool(res), fuzzy.NameSimilarity
	}
	ik, specific := kind.IdentifierKind()
	var pool []string
	for _, c := range identifier.Unique(res.Identifiers) {
		if !specific || c.Kind == ik {
			pool = append(pool, c.Value)
		}
	}
	return pool, fuzzy.IdentifierSimilarity
}

// namePool lists record names, aliases and refined names by their first
// position in the document; at equal positions record names come first.
// Aliases take the position of the refined name they came from, or of their
// record.
func namePool(res *Result) []string {
	type entry struct {
		start int
		text  string
	}
	first := make(map[string]int)
	for _, c := range res.Names {
		if at, ok := first[c.Text]; !ok || c.Span.Start < at {
			first[c.Text] = c.Span.Start
		}
	}
	at := func(text string, fallback int) int {
		if start, ok := first[text]; ok {
			return start
		}
		return fallback
	}
	var entries []entry
	for _, r := range res.Persons {
		if r.Name != "" {
			entries = append(entries, entry{at(r.Name, r.Span.Start), r.Name})
		}
		for _, a := range r.Aliases {
			entries = append(entries, entry{at(a, r.Span.Start), a})
		}
	}
	for _, c := range res.Names {
		entries = append(entries, entry{c.Span.Start, c.Text})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].start < entries[j].start })

	seen := make(map[string]bool)
	var pool []string
	for _, e := range entries {
		if e.text != "" && !seen[e.text] {
			seen[e.text] = true
			pool = append(pool, e.text)
		}
	}
	return pool
}
