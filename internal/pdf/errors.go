package pdf

import "fmt"

// DocumentErrorType categorizes why a document could not be turned into
// page texts.
type DocumentErrorType int

const (
	DocumentErrorUnknown DocumentErrorType = iota
	DocumentErrorNotFound
	DocumentErrorOutsideRoot
	DocumentErrorInvalid
	DocumentErrorTooLarge
	DocumentErrorUnreadable
	DocumentErrorScanned
)

func (t DocumentErrorType) String() string {
	switch t {
	case DocumentErrorNotFound:
		return "NOT_FOUND"
	case DocumentErrorOutsideRoot:
		return "OUTSIDE_ROOT"
	case DocumentErrorInvalid:
		return "INVALID_DOCUMENT"
	case DocumentErrorTooLarge:
		return "TOO_LARGE"
	case DocumentErrorUnreadable:
		return "UNREADABLE"
	case DocumentErrorScanned:
		return "SCANNED"
	default:
		return "UNKNOWN"
	}
}

// DocumentError describes a failure to load a document.
type DocumentError struct {
	Type    DocumentErrorType `json:"type"`
	Message string            `json:"message"`
	Path    string            `json:"path,omitempty"`
	Err     error             `json:"-"`
}

func (e *DocumentError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DocumentError) Unwrap() error { return e.Err }

func newDocumentError(t DocumentErrorType, path, message string, err error) *DocumentError {
	return &DocumentError{Type: t, Message: message, Path: path, Err: err}
}
