package extract

import (
	"context"
	"errors"

	"github.com/a3tai/mcp-pdf-identity/internal/pdf"
	"github.com/a3tai/mcp-pdf-identity/internal/reference"
)

// PageSource provides the page texts of a document.
type PageSource interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// LoadPages reads path through src, turning document failures into input
// errors.
func LoadPages(ctx context.Context, src PageSource, path string) ([]string, error) {
	pages, err := src.PageTexts(ctx, path)
	if err != nil {
		return nil, FromDocumentError(err)
	}
	return pages, nil
}

// FromDocumentError maps a pdf.DocumentError onto an InputError. Other
// errors are returned unchanged.
func FromDocumentError(err error) error {
	var docErr *pdf.DocumentError
	if !errors.As(err, &docErr) {
		return err
	}
	t := ErrorUnreadableDocument
	switch docErr.Type {
	case pdf.DocumentErrorScanned:
		t = ErrorScannedDocument
	case pdf.DocumentErrorOutsideRoot, pdf.DocumentErrorInvalid, pdf.DocumentErrorTooLarge:
		t = ErrorInvalidRequest
	}
	ie := NewInputError(t, docErr.Message).WithCause(err)
	if docErr.Path != "" {
		ie.WithContext("path", docErr.Path)
	}
	return ie
}

// ParseReference parses reference data, reporting malformed content as an
// input error.
func ParseReference(data []byte) ([]reference.Field, error) {
	fields, err := reference.Parse(data)
	if err != nil {
		return nil, NewInputError(ErrorMalformedReference, "reference could not be parsed").WithCause(err)
	}
	return fields, nil
}

// ParseReferenceFile is ParseReference over a file.
func ParseReferenceFile(path string) ([]reference.Field, error) {
	fields, err := reference.ParseFile(path)
	if err != nil {
		return nil, NewInputError(ErrorMalformedReference, "reference could not be read").
			WithContext("path", path).
			WithCause(err)
	}
	return fields, nil
}
