package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType classifies input errors, the only failures the engine reports.
type ErrorType int

const (
	ErrorUnknown ErrorType = iota
	ErrorEmptyDocument
	ErrorUnreadableDocument
	ErrorScannedDocument
	ErrorMalformedReference
	ErrorUnknownEntityKind
	ErrorInvalidRequest
)

func (et ErrorType) String() string {
	switch et {
	case ErrorEmptyDocument:
		return "EMPTY_DOCUMENT"
	case ErrorUnreadableDocument:
		return "UNREADABLE_DOCUMENT"
	case ErrorScannedDocument:
		return "SCANNED_DOCUMENT"
	case ErrorMalformedReference:
		return "MALFORMED_REFERENCE"
	case ErrorUnknownEntityKind:
		return "UNKNOWN_ENTITY_KIND"
	case ErrorInvalidRequest:
		return "INVALID_REQUEST"
	default:
		return "UNKNOWN"
	}
}

// InputError is a structured error about what the caller supplied.
type InputError struct {
	Type    ErrorType      `json:"type"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
	Cause   error          `json:"-"`
}

func NewInputError(t ErrorType, message string) *InputError {
	return &InputError{Type: t, Message: message}
}

func (e *InputError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
		}
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *InputError) Unwrap() error { return e.Cause }

// WithCause records the underlying error.
func (e *InputError) WithCause(err error) *InputError {
	e.Cause = err
	return e
}

// WithContext adds a key/value pair to the error context.
func (e *InputError) WithContext(key string, value any) *InputError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsInputError reports whether err wraps an InputError and returns it.
func IsInputError(err error) (*InputError, bool) {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsType reports whether err wraps an InputError of type t.
func IsType(err error, t ErrorType) bool {
	ie, ok := IsInputError(err)
	return ok && ie.Type == t
}
