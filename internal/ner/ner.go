// Package ner defines the person-span recognition capability consumed by the
// name pipeline, plus a no-op and an HTTP implementation.
package ner

import (
	"context"
	"errors"
	"time"

	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// Recognizer returns the byte ranges of text tagged as PERSON. Callers treat
// any error as "no spans"; see BestEffort.
type Recognizer interface {
	RecognizePersons(ctx context.Context, text string) ([]span.Span, error)
}

// Nop never recognizes anything.
type Nop struct{}

func (Nop) RecognizePersons(context.Context, string) ([]span.Span, error) { return nil, nil }

// Func adapts a function to Recognizer.
type Func func(ctx context.Context, text string) ([]span.Span, error)

func (f Func) RecognizePersons(ctx context.Context, text string) ([]span.Span, error) {
	return f(ctx, text)
}

// BestEffort calls r under timeout and degrades every failure to an empty
// result, logging it.
func BestEffort(ctx context.Context, r Recognizer, text string, timeout time.Duration, log logger.Logger) []span.Span {
	if r == nil || text == "" {
		return nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	spans, err := r.RecognizePersons(ctx, text)
	if err != nil {
		if log != nil {
			log.Warn("person recognizer unavailable, using heuristics only",
				"error", err, "timeout", errors.Is(err, context.DeadlineExceeded))
		}
		return nil
	}
	return clip(spans, len(text))
}

func clip(spans []span.Span, n int) []span.Span {
	out := spans[:0:0]
	for _, s := range spans {
		if s.Start < 0 || s.End > n || s.Start >= s.End {
			continue
		}
		out = append(out, s)
	}
	return out
}
