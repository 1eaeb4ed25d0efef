package ner

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/a3tai/mcp-pdf-identity/internal/span"
)

// HTTPConfig configures a remote recognizer.
type HTTPConfig struct {
	URL     string
	Timeout time.Duration
	Retries int
}

type request struct {
	Text string `json:"text"`
}

type entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

type response struct {
	Entities []entity `json:"entities"`
}

// HTTPRecognizer posts the text to a NER service that answers with
// {"entities":[{"start","end","label"}]}, offsets counted in characters.
type HTTPRecognizer struct {
	client *resty.Client
	url    string
}

func NewHTTPRecognizer(cfg HTTPConfig) (*HTTPRecognizer, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("ner: service URL is required")
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)
	client.AddRetryCondition(retryCondition)
	return &HTTPRecognizer{client: client, url: cfg.URL}, nil
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

func (h *HTTPRecognizer) RecognizePersons(ctx context.Context, text string) ([]span.Span, error) {
	var out response
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(request{Text: text}).
		SetResult(&out).
		Post(h.url)
	if err != nil {
		return nil, fmt.Errorf("ner request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ner service returned status %d", resp.StatusCode())
	}

	offsets := runeOffsets(text)
	var spans []span.Span
	for _, e := range out.Entities {
		switch strings.ToUpper(e.Label) {
		case "PER", "PERSON":
		default:
			continue
		}
		if e.Start < 0 || e.End > len(offsets)-1 || e.Start >= e.End {
			continue
		}
		spans = append(spans, span.Span{Start: offsets[e.Start], End: offsets[e.End]})
	}
	return spans, nil
}

// runeOffsets maps character index i to its byte offset; the final entry is
// len(text).
func runeOffsets(text string) []int {
	offs := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offs = append(offs, i)
	}
	return append(offs, len(text))
}
