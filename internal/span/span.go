// Package span holds byte-offset ranges into normalized text.
package span

import "unicode/utf8"

// Span is a half-open byte range [Start, End) into a normalized text.
type Span struct {
	Start int `json:"inicio"`
	End   int `json:"fin"`
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies wholly inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Distance is the number of bytes between two spans, zero when they overlap
// or touch.
func (s Span) Distance(o Span) int {
	switch {
	case s.Overlaps(o):
		return 0
	case s.End <= o.Start:
		return o.Start - s.End
	default:
		return s.Start - o.End
	}
}

// Window returns the text surrounding s, radius bytes on each side, clamped
// to the text and to rune boundaries.
func Window(text string, s Span, radius int) string {
	start := clampStart(text, s.Start-radius)
	end := clampEnd(text, s.End+radius)
	if start >= end {
		return ""
	}
	return text[start:end]
}

// Before returns up to n bytes of text ending at offset, starting on a rune
// boundary. The returned offset is where the slice starts.
func Before(text string, offset, n int) (string, int) {
	end := clampEnd(text, offset)
	start := clampStart(text, end-n)
	return text[start:end], start
}

// After returns up to n bytes of text starting at offset.
func After(text string, offset, n int) string {
	start := clampStart(text, offset)
	end := clampEnd(text, start+n)
	return text[start:end]
}

func clampStart(text string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(text) {
		return len(text)
	}
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return i
}

func clampEnd(text string, i int) int {
	if i >= len(text) {
		return len(text)
	}
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
