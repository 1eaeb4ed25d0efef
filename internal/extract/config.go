package extract

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/a3tai/mcp-pdf-identity/internal/fuzzy"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/names"
	"github.com/a3tai/mcp-pdf-identity/internal/persons"
)

// Config is the immutable configuration threaded through one engine. It is
// what an extraction profile overrides.
type Config struct {
	Identifier identifier.Config `mapstructure:"identifier" json:"identifier"`
	Names      names.Config      `mapstructure:"names" json:"names"`
	Persons    persons.Config    `mapstructure:"persons" json:"persons"`
	Fuzzy      fuzzy.Config      `mapstructure:"fuzzy" json:"fuzzy"`
	// NERTimeout bounds the single recognizer call made per document.
	NERTimeout time.Duration `mapstructure:"ner_timeout" json:"ner_timeout" validate:"min=0"`
}

func DefaultConfig() Config {
	return Config{
		Identifier: identifier.DefaultConfig(),
		Names:      names.DefaultConfig(),
		Persons:    persons.DefaultConfig(),
		Fuzzy:      fuzzy.DefaultConfig(),
		NERTimeout: 5 * time.Second,
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid extraction config: %w", err)
	}
	if err := c.Fuzzy.Validate(); err != nil {
		return fmt.Errorf("invalid extraction config: %w", err)
	}
	if c.Names.Natural.MaxTokens > c.Names.Judicial.MaxTokens {
		return fmt.Errorf("invalid extraction config: natural max tokens %d exceeds judicial %d",
			c.Names.Natural.MaxTokens, c.Names.Judicial.MaxTokens)
	}
	return nil
}
