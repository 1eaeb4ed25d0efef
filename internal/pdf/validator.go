package pdf

import (
	"os"
	"path/filepath"
	"strings"
)

// Supported document extensions. Text files skip PDF parsing.
var (
	pdfExtensions  = map[string]bool{".pdf": true}
	textExtensions = map[string]bool{".txt": true, ".json": true}
)

// Validator checks files against the size and type constraints.
type Validator struct {
	maxFileSize int64
}

func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// Check stats path and verifies it is a non-empty supported file within
// the size limit.
func (v *Validator) Check(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, newDocumentError(DocumentErrorInvalid, "", "path cannot be empty", nil)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, newDocumentError(DocumentErrorNotFound, path, "file does not exist", nil)
	}
	if err != nil {
		return nil, newDocumentError(DocumentErrorUnreadable, path, "cannot access file", err)
	}
	if err := v.CheckInfo(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// CheckInfo validates a file without opening it.
func (v *Validator) CheckInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return newDocumentError(DocumentErrorInvalid, path, "path is a directory, not a file", nil)
	}
	if !IsSupported(path) {
		return newDocumentError(DocumentErrorInvalid, path, "unsupported file type (want .pdf, .txt or .json)", nil)
	}
	if info.Size() == 0 {
		return newDocumentError(DocumentErrorInvalid, path, "file is empty", nil)
	}
	if info.Size() > v.maxFileSize {
		return newDocumentError(DocumentErrorTooLarge, path, "file too large", nil)
	}
	return nil
}

// IsSupported reports whether the extension of path is handled.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return pdfExtensions[ext] || textExtensions[ext]
}

// IsPDF reports whether path has a PDF extension.
func IsPDF(path string) bool {
	return pdfExtensions[strings.ToLower(filepath.Ext(path))]
}
