package fuzzy

import (
	"math"
	"unicode/utf8"
)

// Config gathers the tunables of the comparator.
type Config struct {
	Thresholds  Thresholds `mapstructure:"thresholds" json:"thresholds"`
	Memberships Set        `mapstructure:"memberships" json:"memberships"`
}

func DefaultConfig() Config {
	return Config{Thresholds: DefaultThresholds(), Memberships: DefaultSet()}
}

func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	return c.Memberships.Validate()
}

// Result is the outcome of comparing one reference field.
type Result struct {
	Field     string   `json:"field"`
	Reference string   `json:"value_from_file"`
	Best      *string  `json:"best_match_in_pdf"`
	Score     float64  `json:"score"`
	Category  Category `json:"category"`
}

type Comparator struct {
	cfg Config
}

func NewComparator(cfg Config) *Comparator {
	return &Comparator{cfg: cfg}
}

// Score turns a crisp similarity into the inferred score and its category.
func (c *Comparator) Score(similarity float64) (float64, Category) {
	score := round2(c.cfg.Memberships.Infer(similarity))
	return score, c.cfg.Thresholds.Categorize(score)
}

// Compare picks the best candidate for reference from pool, which must be in
// document order. Ties go to the shorter candidate, then the earlier one.
// A pool with nothing scoring above zero yields a nil Best, score 0 and baja.
func (c *Comparator) Compare(field, reference string, pool []string, sim Similarity) Result {
	res := Result{Field: field, Reference: reference, Category: Baja}
	best := -1
	var bestScore float64
	for i, cand := range pool {
		score, _ := c.Score(sim(reference, cand))
		if score <= 0 {
			continue
		}
		if best < 0 || score > bestScore ||
			score == bestScore && utf8.RuneCountInString(cand) < utf8.RuneCountInString(pool[best]) {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return res
	}
	match := pool[best]
	res.Best = &match
	res.Score, res.Category = bestScore, c.cfg.Thresholds.Categorize(bestScore)
	return res
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
