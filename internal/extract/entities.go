package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/a3tai/mcp-pdf-identity/internal/fold"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
)

// EntityKind is a kind a caller can request from selective extraction.
type EntityKind string

const (
	EntityName      EntityKind = "nombre"
	EntityDNI       EntityKind = "dni"
	EntityCUIL      EntityKind = "cuil"
	EntityCUIT      EntityKind = "cuit"
	EntityCUIF      EntityKind = "cuif"
	EntityMatricula EntityKind = "matricula"
)

// EntityKinds lists every requestable kind.
var EntityKinds = []EntityKind{EntityName, EntityDNI, EntityCUIL, EntityCUIT, EntityCUIF, EntityMatricula}

var entityAliases = map[string]EntityKind{
	"nombres": EntityName,
	"names":   EntityName,
	"name":    EntityName,
}

// IdentifierKind maps k onto an identifier kind; false for names.
func (k EntityKind) IdentifierKind() (identifier.Kind, bool) {
	if k == EntityName {
		return "", false
	}
	ik, err := identifier.ParseKind(string(k))
	return ik, err == nil
}

// ParseEntityKinds accepts a list of kinds, or a single element holding a
// JSON array or a comma separated list. Kinds are case-insensitive and
// duplicates are dropped.
func ParseEntityKinds(input []string) ([]EntityKind, error) {
	raw := input
	if len(input) == 1 {
		raw = splitSingle(input[0])
	}
	var out []EntityKind
	seen := make(map[EntityKind]bool)
	for _, r := range raw {
		k, ok := parseEntityKind(r)
		if !ok {
			if strings.TrimSpace(r) == "" {
				continue
			}
			return nil, NewInputError(ErrorUnknownEntityKind, "unknown entity kind").
				WithContext("kind", r).
				WithContext("valid", EntityKinds)
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return nil, NewInputError(ErrorInvalidRequest, "no entity kinds requested")
	}
	return out, nil
}

func splitSingle(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			return list
		}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return parts
}

func parseEntityKind(s string) (EntityKind, bool) {
	f := fold.Fold(strings.TrimSpace(s))
	if k, ok := entityAliases[f]; ok {
		return k, true
	}
	for _, k := range EntityKinds {
		if string(k) == f {
			return k, true
		}
	}
	return "", false
}

// Entry is one selectively extracted entity.
type Entry struct {
	Value   string            `json:"valor,omitempty"`
	Name    string            `json:"nombre,omitempty"`
	Context string            `json:"contexto"`
	Valid   *bool             `json:"valido,omitempty"`
	Reason  identifier.Reason `json:"motivo,omitempty"`
}

// EntitiesReport holds only the requested kinds.
type EntitiesReport struct {
	Source    string                 `json:"fuente,omitempty"`
	Requested []EntityKind           `json:"entidades_solicitadas"`
	Results   map[EntityKind][]Entry `json:"resultados"`
	Summary   map[EntityKind]int     `json:"resumen"`
	Invalid   []InvalidIdentifier    `json:"identificadores_invalidos,omitempty"`
}

// ExtractEntities extracts pages and keeps only the requested kinds.
func (e *Engine) ExtractEntities(ctx context.Context, pages []string, kinds []EntityKind) (*EntitiesReport, error) {
	if len(kinds) == 0 {
		return nil, NewInputError(ErrorInvalidRequest, "no entity kinds requested")
	}
	res, err := e.Extract(ctx, pages)
	if err != nil {
		return nil, err
	}
	return Entities(res, kinds), nil
}

// Entities projects res onto kinds.
func Entities(res *Result, kinds []EntityKind) *EntitiesReport {
	rep := &EntitiesReport{
		Requested: kinds,
		Results:   make(map[EntityKind][]Entry, len(kinds)),
		Summary:   make(map[EntityKind]int, len(kinds)),
	}
	idKinds := make(map[identifier.Kind]bool)
	for _, k := range kinds {
		entries := make([]Entry, 0)
		if ik, ok := k.IdentifierKind(); ok {
			idKinds[ik] = true
			for _, c := range identifier.OfKind(identifier.Unique(res.Identifiers), ik) {
				valid := c.Valid
				entries = append(entries, Entry{Value: c.Value, Context: c.Context, Valid: &valid, Reason: c.Reason})
			}
		} else {
			seen := make(map[string]bool)
			for _, c := range res.Names {
				key := fold.Key(c.Text)
				if seen[key] {
					continue
				}
				seen[key] = true
				entries = append(entries, Entry{Name: c.Text, Context: c.Context})
			}
		}
		rep.Results[k] = entries
		rep.Summary[k] = len(entries)
	}
	if len(idKinds) > 0 {
		rep.Invalid = InvalidIdentifiers(res, idKinds)
	}
	return rep
}
