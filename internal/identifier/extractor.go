package identifier

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// Config bounds the label scan and the context captured around each match.
type Config struct {
	// ContextRadius is the number of bytes of text kept on each side of a match.
	ContextRadius int `mapstructure:"context_radius" json:"context_radius" validate:"min=0,max=1000"`
	// LabelGap is the maximum run of punctuation/space between a label and its value.
	LabelGap int `mapstructure:"label_gap" json:"label_gap" validate:"min=1,max=20"`
}

func DefaultConfig() Config {
	return Config{ContextRadius: 60, LabelGap: 4}
}

// Candidate is one labeled identifier found in normalized text. Invalid
// candidates are kept with Valid=false and a Reason.
type Candidate struct {
	Kind    Kind      `json:"tipo"`
	Raw     string    `json:"valor_original"`
	Value   string    `json:"valor"`
	Span    span.Span `json:"-"`
	Context string    `json:"contexto"`
	Valid   bool      `json:"valido"`
	Reason  Reason    `json:"motivo,omitempty"`
}

type kindPattern struct {
	kind Kind
	re   *regexp.Regexp
}

// Extractor scans normalized text for every identifier kind.
type Extractor struct {
	cfg      Config
	patterns []kindPattern
}

func NewExtractor(cfg Config) *Extractor {
	gap := fmt.Sprintf(`[^\pL\pN]{0,%d}`, cfg.LabelGap)
	digits := `(\d+)\b`
	taxID := `(\d{2}-\d{8}-\d|\d+)\b`
	return &Extractor{
		cfg: cfg,
		patterns: []kindPattern{
			{DNI, regexp.MustCompile(`(?i)\bDNI` + gap + digits)},
			{CUIL, regexp.MustCompile(`(?i)\bCUIL` + gap + taxID)},
			{CUIT, regexp.MustCompile(`(?i)\bCUIT` + gap + taxID)},
			{CUIF, regexp.MustCompile(`(?i)\bCUIF` + gap + digits)},
			{Matricula, regexp.MustCompile(`(?i)\bMATR[IÍ]CULA` + gap + `([A-Za-z]{0,4}\d[A-Za-z0-9]*(?:[./\-][A-Za-z0-9]+)*)\b`)},
		},
	}
}

// Extract returns every labeled identifier in text ordered by position.
// Repeated mentions of the same number are all returned; see Unique.
func (e *Extractor) Extract(text string) []Candidate {
	var out []Candidate
	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]]
			s := span.Span{Start: m[0], End: m[1]}
			v := Validate(p.kind, raw)
			out = append(out, Candidate{
				Kind:    p.kind,
				Raw:     raw,
				Value:   v.Value,
				Span:    s,
				Context: span.Window(text, s, e.cfg.ContextRadius),
				Valid:   v.Valid,
				Reason:  v.Reason,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

// Unique keeps the first occurrence of each (kind, value) pair.
func Unique(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		key := string(c.Kind) + ":" + c.Value
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// OfKind filters candidates by kind, preserving order.
func OfKind(cands []Candidate, kind Kind) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
