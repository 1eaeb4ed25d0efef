// Package names finds person and entity names in normalized legal text: a
// candidate generator with three pattern families, a prioritized contextual
// rule engine with an optional NER fallback, and a refiner that trims,
// filters and deduplicates the survivors.
package names

import (
	"strings"

	"github.com/a3tai/mcp-pdf-identity/internal/fold"
)

// Shape bounds a name run: how many tokens it may have and how far (in
// bytes) from its cue it may be searched.
type Shape struct {
	MaxTokens int `mapstructure:"max_tokens" json:"max_tokens" validate:"min=2,max=12"`
	Window    int `mapstructure:"window" json:"window" validate:"min=1,max=1000"`
}

type Config struct {
	ContextRadius int `mapstructure:"context_radius" json:"context_radius" validate:"min=0,max=1000"`
	// Natural bounds person names; Judicial bounds caption parties and
	// entity names, which run longer.
	Natural  Shape `mapstructure:"natural" json:"natural"`
	Judicial Shape `mapstructure:"judicial" json:"judicial"`
	// CaptionTokens is how far after "C/" the closing "S/" may appear.
	CaptionTokens int `mapstructure:"caption_tokens" json:"caption_tokens" validate:"min=1,max=200"`
	// AnchorWindow is the distance within which a cue word confirms a
	// generated candidate.
	AnchorWindow int `mapstructure:"anchor_window" json:"anchor_window" validate:"min=0,max=1000"`
	// DedupDistance is how far apart two mentions may be and still count as
	// the same location when deduplicating.
	DedupDistance int `mapstructure:"dedup_distance" json:"dedup_distance" validate:"min=0,max=1000"`

	RightCues   []string `mapstructure:"right_cues" json:"right_cues"`
	LeftCues    []string `mapstructure:"left_cues" json:"left_cues"`
	CaptionCues []string `mapstructure:"caption_cues" json:"caption_cues"`
	StopWords   []string `mapstructure:"stop_words" json:"stop_words"`
	EdgeWords   []string `mapstructure:"edge_words" json:"edge_words"`
	// Vocabulary is the non-name word list; plural and gender variants are
	// added automatically.
	Vocabulary []string `mapstructure:"vocabulary" json:"vocabulary"`
}

func DefaultConfig() Config {
	return Config{
		ContextRadius: 60,
		Natural:       Shape{MaxTokens: 6, Window: 70},
		Judicial:      Shape{MaxTokens: 8, Window: 100},
		CaptionTokens: 30,
		AnchorWindow:  100,
		DedupDistance: 0,
		RightCues: []string{
			"sr", "sra", "srta", "dres", "dr", "dra", "doctoras", "doctores", "señor", "señora",
			"doctor", "doctora", "abogado", "abogada", "apoderado", "apoderada", "patrocinio",
			"letrado", "letrada", "juez", "jueza", "ciudadano", "ciudadana", "banco",
			"identificado", "identificada", "comparece", "comparecen", "representado",
			"representada", "mandante", "actúa", "suscribe", "conjuntamente",
		},
		LeftCues:    []string{"dni", "cuil", "cuit", "cuif", "matricula", "matrícula"},
		CaptionCues: []string{"c/", "s/", "contra", "autos", "caratulados", "caratulado", "expediente", "expte", "actor", "actora", "demandado", "demandada"},
		StopWords: []string{
			"dni", "matricula", "mp", "cuif", "cuit", "cuil", "señor", "señora", "sr", "sra", "srta",
			"juez", "jueza", "ciudadano", "ciudadana", "doctor", "doctora", "dr", "dra", "drs", "dras",
			"abogado", "abogada", "letrado", "letrada", "que", "heredero", "heredera", "nacimiento", "partida",
		},
		EdgeWords: []string{"del", "de", "y", "e", "la", "el", "los", "las", "en"},
		Vocabulary: []string{
			"expediente", "orden", "jurídico", "estado", "provincial", "provincia", "nacional",
			"constitucional", "constitución", "ley", "administrativo", "sentencia", "consejo",
			"jubilación", "ordinario", "carta", "poder", "legislativo", "social", "seguridad",
			"federal", "derecho", "art", "resolución", "ente", "cargo", "decreto", "nación",
			"judicial", "propiedad", "juzgado", "firmado", "oficio", "calle", "avenida", "buenos",
			"aires", "corrientes", "argentina", "institución", "instituto", "ministerio",
			"secretaría", "dirección", "cámara", "corte", "supremo", "tribunal", "amparo", "ctes",
			"civil", "comercial", "laboral", "penal", "fiscal", "fiscalía", "defensoría",
			"municipalidad", "república", "registro", "público",
		},
	}
}

// ExpandVariants adds plural and gender variants of each word, folded.
func ExpandVariants(words []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(w string) {
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, raw := range words {
		w := fold.Fold(strings.TrimSpace(raw))
		add(w)
		switch {
		case strings.HasSuffix(w, "o"):
			stem := strings.TrimSuffix(w, "o")
			add(w + "s")
			add(stem + "a")
			add(stem + "as")
		case strings.HasSuffix(w, "a"):
			stem := strings.TrimSuffix(w, "a")
			add(w + "s")
			add(stem + "o")
			add(stem + "os")
		case strings.HasSuffix(w, "e"):
			add(w + "s")
		case strings.HasSuffix(w, "on"), strings.HasSuffix(w, "or"), strings.HasSuffix(w, "al"),
			strings.HasSuffix(w, "ad"), strings.HasSuffix(w, "y"):
			add(w + "es")
		default:
			add(w + "s")
		}
	}
	return out
}

// lexicon holds the folded word sets derived from a Config.
type lexicon struct {
	right, left, caption map[string]bool
	// anchors are cue, title and label words stripped from name edges and
	// excluded from name runs.
	anchors map[string]bool
	labels  map[string]bool
	edges   map[string]bool
	vocab   map[string]bool
}

func newLexicon(cfg Config) *lexicon {
	return &lexicon{
		right:   fold.Set(cfg.RightCues),
		left:    fold.Set(cfg.LeftCues),
		caption: fold.Set(cfg.CaptionCues),
		anchors: fold.Set(cfg.StopWords, cfg.RightCues, cfg.LeftCues),
		labels:  fold.Set(cfg.LeftCues, []string{"mp"}),
		edges:   fold.Set(cfg.EdgeWords),
		vocab:   fold.Set(ExpandVariants(cfg.Vocabulary)),
	}
}

// nameWord reports a capitalized word that is not a cue, title or label.
func (l *lexicon) nameWord(t Token) bool {
	return t.IsCapitalized() && !l.anchors[t.Folded]
}

// connector reports a lowercase article or preposition that may sit inside
// a name ("María de los Ángeles").
func (l *lexicon) connector(t Token) bool {
	return t.Kind == Word && l.edges[t.Folded] && !t.IsCapitalized()
}

func (l *lexicon) cue(t Token) bool {
	return t.Kind == Word && (l.right[t.Folded] || l.left[t.Folded])
}
