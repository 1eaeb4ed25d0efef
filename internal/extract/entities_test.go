package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/pdf"
)

func TestParseEntityKinds(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []EntityKind
	}{
		{"list", []string{"dni", "Nombre"}, []EntityKind{EntityDNI, EntityName}},
		{"json array", []string{`["nombre","dni","cuil"]`}, []EntityKind{EntityName, EntityDNI, EntityCUIL}},
		{"comma separated", []string{"cuit, 'matricula' ,\"cuif\""}, []EntityKind{EntityCUIT, EntityMatricula, EntityCUIF}},
		{"single", []string{"CUIL"}, []EntityKind{EntityCUIL}},
		{"alias and accents", []string{"nombres", "Matrícula"}, []EntityKind{EntityName, EntityMatricula}},
		{"duplicates", []string{"dni,DNI, dni"}, []EntityKind{EntityDNI}},
		{"blank entries", []string{"dni", " ", "cuit"}, []EntityKind{EntityDNI, EntityCUIT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntityKinds(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntityKinds_Errors(t *testing.T) {
	_, err := ParseEntityKinds([]string{"dni", "pasaporte"})
	require.Error(t, err)
	ie, ok := IsInputError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorUnknownEntityKind, ie.Type)
	assert.Equal(t, "pasaporte", ie.Context["kind"])

	_, err = ParseEntityKinds(nil)
	assert.True(t, IsType(err, ErrorInvalidRequest))
	_, err = ParseEntityKinds([]string{"[]"})
	assert.True(t, IsType(err, ErrorInvalidRequest))
}

func TestEntityKind_IdentifierKind(t *testing.T) {
	ik, ok := EntityMatricula.IdentifierKind()
	assert.True(t, ok)
	assert.Equal(t, identifier.Matricula, ik)
	_, ok = EntityName.IdentifierKind()
	assert.False(t, ok)
}

func TestInputError(t *testing.T) {
	cause := errors.New("boom")
	err := NewInputError(ErrorUnreadableDocument, "cannot read").
		WithContext("path", "a.pdf").
		WithCause(cause)

	assert.Equal(t, "[UNREADABLE_DOCUMENT] cannot read path=a.pdf: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("tool failed: %w", err)
	ie, ok := IsInputError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorUnreadableDocument, ie.Type)
	assert.False(t, IsType(cause, ErrorUnreadableDocument))
	assert.Equal(t, "UNKNOWN", ErrorType(99).String())
}

func TestFromDocumentError(t *testing.T) {
	tests := []struct {
		docType pdf.DocumentErrorType
		want    ErrorType
	}{
		{pdf.DocumentErrorScanned, ErrorScannedDocument},
		{pdf.DocumentErrorUnreadable, ErrorUnreadableDocument},
		{pdf.DocumentErrorNotFound, ErrorUnreadableDocument},
		{pdf.DocumentErrorOutsideRoot, ErrorInvalidRequest},
		{pdf.DocumentErrorTooLarge, ErrorInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.docType.String(), func(t *testing.T) {
			err := FromDocumentError(&pdf.DocumentError{Type: tt.docType, Message: "x", Path: "a.pdf"})
			assert.True(t, IsType(err, tt.want), "got %v", err)
		})
	}

	plain := errors.New("plain")
	assert.Same(t, plain, FromDocumentError(plain))
}

func TestParseReference(t *testing.T) {
	_, err := ParseReference([]byte(`{"DNI": `))
	assert.True(t, IsType(err, ErrorMalformedReference))

	_, err = ParseReferenceFile("/does/not/exist.json")
	assert.True(t, IsType(err, ErrorMalformedReference))

	fields, err := ParseReference([]byte("DNI: 12345678"))
	require.NoError(t, err)
	assert.Len(t, fields, 1)
}
