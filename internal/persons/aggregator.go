// Package persons associates names with nearby identifiers and merges
// repeated mentions into one record per person.
package persons

import (
	"sort"

	"github.com/a3tai/mcp-pdf-identity/internal/fold"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/names"
	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

type Config struct {
	// LookAhead caps how far after a name its identifiers may start.
	LookAhead int `mapstructure:"look_ahead" json:"look_ahead" validate:"min=1,max=2000"`
	// RecoverEntities names orphan CUITs after the entity written before them.
	RecoverEntities bool `mapstructure:"recover_entities" json:"recover_entities"`
	// MergeSharedIdentifiers merges records that carry the same valid
	// identifier even when their names differ.
	MergeSharedIdentifiers bool `mapstructure:"merge_shared_identifiers" json:"merge_shared_identifiers"`
}

func DefaultConfig() Config {
	return Config{LookAhead: 100, RecoverEntities: true, MergeSharedIdentifiers: true}
}

// Conflict lists the distinct values seen for one identifier kind of a person.
type Conflict struct {
	Kind   identifier.Kind `json:"tipo"`
	Values []string        `json:"valores"`
}

// Record is one person (or entity) with its identifiers. Orphan records have
// no name.
type Record struct {
	Name        string
	Aliases     []string
	Mentions    []names.Candidate
	Identifiers map[identifier.Kind]identifier.Candidate
	Conflicts   []Conflict
	// Span is the first position where the record was seen.
	Span span.Span
}

func (r *Record) Orphan() bool { return r.Name == "" }

// Value returns the identifier value of kind, if found.
func (r *Record) Value(kind identifier.Kind) (string, bool) {
	c, ok := r.Identifiers[kind]
	return c.Value, ok
}

// EntityNamer recovers an entity name written right before offset.
type EntityNamer interface {
	EntityNameBefore(doc *names.Document, offset int) (names.Candidate, bool)
}

type Aggregator struct {
	cfg    Config
	entity EntityNamer
}

// NewAggregator builds an Aggregator; entity may be nil.
func NewAggregator(cfg Config, entity EntityNamer) *Aggregator {
	return &Aggregator{cfg: cfg, entity: entity}
}

// Aggregate builds person records from refined names and extracted
// identifiers. runs are the name-shaped token runs of doc; an identifier
// belongs to the closest name before it, up to the next run or name.
func (a *Aggregator) Aggregate(doc *names.Document, cands []names.Candidate, ids []identifier.Candidate, runs []span.Span) []Record {
	cands = append([]names.Candidate(nil), cands...)
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Span.Start < cands[j].Span.Start })

	claimed := make([]bool, len(ids))
	var records []Record
	for i, c := range cands {
		end := a.windowEnd(cands, i, runs)
		rec := newRecord(c.Text, c.Span)
		rec.Mentions = []names.Candidate{c}
		for j, id := range ids {
			if claimed[j] || id.Span.Start < c.Span.End || id.Span.Start >= end {
				continue
			}
			claimed[j] = true
			rec.add(id)
		}
		records = append(records, rec)
	}

	for j, id := range ids {
		if claimed[j] {
			continue
		}
		records = append(records, a.unclaimed(doc, id))
	}

	records = mergeByName(records)
	if a.cfg.MergeSharedIdentifiers {
		records = mergeByIdentifier(records)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Span.Start < records[j].Span.Start })
	return records
}

func (a *Aggregator) windowEnd(cands []names.Candidate, i int, runs []span.Span) int {
	c := cands[i]
	end := c.Span.End + a.cfg.LookAhead
	if i+1 < len(cands) && cands[i+1].Span.Start < end {
		end = cands[i+1].Span.Start
	}
	for _, r := range runs {
		if r.Start >= c.Span.End && r.Start < end {
			end = r.Start
			break
		}
	}
	return end
}

func (a *Aggregator) unclaimed(doc *names.Document, id identifier.Candidate) Record {
	if a.cfg.RecoverEntities && a.entity != nil && id.Kind == identifier.CUIT && doc != nil {
		if ent, ok := a.entity.EntityNameBefore(doc, id.Span.Start); ok {
			rec := newRecord(ent.Text, ent.Span)
			rec.Mentions = []names.Candidate{ent}
			rec.add(id)
			return rec
		}
	}
	rec := newRecord("", id.Span)
	rec.add(id)
	return rec
}

func newRecord(name string, s span.Span) Record {
	return Record{Name: name, Span: s, Identifiers: make(map[identifier.Kind]identifier.Candidate)}
}

// add keeps the first value per kind and records any different value as a
// conflict.
func (r *Record) add(id identifier.Candidate) {
	cur, ok := r.Identifiers[id.Kind]
	if !ok {
		r.Identifiers[id.Kind] = id
		return
	}
	if cur.Value != id.Value {
		r.addConflict(id.Kind, cur.Value, id.Value)
	}
}

func (r *Record) addConflict(kind identifier.Kind, values ...string) {
	idx := -1
	for i, c := range r.Conflicts {
		if c.Kind == kind {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.Conflicts = append(r.Conflicts, Conflict{Kind: kind})
		idx = len(r.Conflicts) - 1
	}
	for _, v := range values {
		if !contains(r.Conflicts[idx].Values, v) {
			r.Conflicts[idx].Values = append(r.Conflicts[idx].Values, v)
		}
	}
}

func (r *Record) merge(src Record) {
	for _, k := range identifier.Kinds {
		if id, ok := src.Identifiers[k]; ok {
			r.add(id)
		}
	}
	for _, c := range src.Conflicts {
		r.addConflict(c.Kind, c.Values...)
	}
	r.Mentions = append(r.Mentions, src.Mentions...)
	if src.Span.Start < r.Span.Start {
		r.Span = src.Span
	}
}

// mergeByName folds records whose names share the same token multiset.
func mergeByName(records []Record) []Record {
	var out []Record
	index := make(map[string]int)
	for _, r := range records {
		if r.Orphan() {
			out = append(out, r)
			continue
		}
		key := fold.Key(r.Name)
		if i, ok := index[key]; ok {
			out[i].merge(r)
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}

// mergeByIdentifier folds records carrying the same identifier. Between two
// named records only valid identifiers count; the longer name is kept and
// the other becomes an alias. Orphans join any record with their value.
func mergeByIdentifier(records []Record) []Record {
	var out []Record
	for _, r := range records {
		target := -1
		for i := range out {
			if sharesIdentifier(&out[i], &r) {
				target = i
				break
			}
		}
		if target < 0 {
			out = append(out, r)
			continue
		}
		dst := &out[target]
		switch {
		case r.Orphan():
		case dst.Orphan():
			dst.Name = r.Name
		case fold.Key(dst.Name) != fold.Key(r.Name):
			if longerName(r.Name, dst.Name) {
				dst.Aliases = appendUnique(dst.Aliases, dst.Name)
				dst.Name = r.Name
			} else {
				dst.Aliases = appendUnique(dst.Aliases, r.Name)
			}
		}
		dst.merge(r)
	}
	return out
}

func sharesIdentifier(a, b *Record) bool {
	bothNamed := !a.Orphan() && !b.Orphan()
	for k, ida := range a.Identifiers {
		idb, ok := b.Identifiers[k]
		if !ok || ida.Value != idb.Value {
			continue
		}
		if bothNamed && (!ida.Valid || !idb.Valid) {
			continue
		}
		return true
	}
	return false
}

func longerName(a, b string) bool {
	ta, tb := len(fold.Tokens(a)), len(fold.Tokens(b))
	if ta != tb {
		return ta > tb
	}
	return len(a) > len(b)
}

func appendUnique(list []string, v string) []string {
	if contains(list, v) {
		return list
	}
	return append(list, v)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
