package extract

import (
	"github.com/a3tai/mcp-pdf-identity/internal/fuzzy"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/persons"
)

// Identifiers always carries every kind; absent kinds encode as null.
type Identifiers struct {
	DNI       *string `json:"DNI"`
	CUIL      *string `json:"CUIL"`
	CUIT      *string `json:"CUIT"`
	CUIF      *string `json:"CUIF"`
	Matricula *string `json:"MATRICULA"`
}

func (ids *Identifiers) set(kind identifier.Kind, v string) {
	switch kind {
	case identifier.DNI:
		ids.DNI = &v
	case identifier.CUIL:
		ids.CUIL = &v
	case identifier.CUIT:
		ids.CUIT = &v
	case identifier.CUIF:
		ids.CUIF = &v
	case identifier.Matricula:
		ids.Matricula = &v
	}
}

// Person is the wire form of a persons.Record.
type Person struct {
	Name        *string            `json:"nombre"`
	Identifiers Identifiers        `json:"identificadores"`
	Conflicts   []persons.Conflict `json:"conflictos,omitempty"`
	Aliases     []string           `json:"aliases,omitempty"`
}

// InvalidIdentifier reports an identifier that failed validation.
type InvalidIdentifier struct {
	Kind    identifier.Kind   `json:"tipo"`
	Value   string            `json:"valor"`
	Reason  identifier.Reason `json:"motivo"`
	Detail  string            `json:"detalle"`
	Owner   *string           `json:"titular"`
	Context string            `json:"contexto"`
}

// Report is the combined extraction and comparison response.
type Report struct {
	ComparisonPerformed bool                `json:"comparison_performed"`
	ComparisonResult    []fuzzy.Result      `json:"comparison_result"`
	Persons             []Person            `json:"personas_identificadas_pdf"`
	Invalid             []InvalidIdentifier `json:"identificadores_invalidos"`
}

// NewReport builds a report without comparison from res.
func NewReport(res *Result) *Report {
	r := &Report{
		Persons: make([]Person, 0, len(res.Persons)),
		Invalid: InvalidIdentifiers(res, nil),
	}
	for i := range res.Persons {
		r.Persons = append(r.Persons, NewPerson(&res.Persons[i]))
	}
	return r
}

func NewPerson(rec *persons.Record) Person {
	p := Person{Conflicts: rec.Conflicts, Aliases: rec.Aliases}
	if !rec.Orphan() {
		name := rec.Name
		p.Name = &name
	}
	for kind, c := range rec.Identifiers {
		p.Identifiers.set(kind, c.Value)
	}
	return p
}

// InvalidIdentifiers lists every invalid identifier of res whose kind is
// in kinds (all kinds when kinds is nil), with the record that holds it.
func InvalidIdentifiers(res *Result, kinds map[identifier.Kind]bool) []InvalidIdentifier {
	out := make([]InvalidIdentifier, 0)
	for _, c := range identifier.Unique(res.Identifiers) {
		if c.Valid || kinds != nil && !kinds[c.Kind] {
			continue
		}
		out = append(out, InvalidIdentifier{
			Kind:    c.Kind,
			Value:   c.Value,
			Reason:  c.Reason,
			Detail:  c.Reason.Message(),
			Owner:   owner(res.Persons, c),
			Context: c.Context,
		})
	}
	return out
}

func owner(records []persons.Record, c identifier.Candidate) *string {
	for i := range records {
		r := &records[i]
		if r.Orphan() {
			continue
		}
		if v, ok := r.Value(c.Kind); ok && v == c.Value {
			name := r.Name
			return &name
		}
	}
	return nil
}
