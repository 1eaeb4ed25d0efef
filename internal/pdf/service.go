// Package pdf turns documents in the configured directory into per-page
// text for the extraction engine.
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/pdf/security"
)

type Config struct {
	MaxFileSize int64
	// MaxTextSize caps the extracted text of one document, in bytes.
	MaxTextSize int
	// MinTextChars is the least amount of text a PDF with images must
	// yield before it is treated as scanned.
	MinTextChars int
	// CacheBytes bounds the page cache; 0 disables it.
	CacheBytes int64
}

func DefaultConfig() Config {
	return Config{
		MaxFileSize:  100 * 1024 * 1024,
		MaxTextSize:  10 * 1024 * 1024,
		MinTextChars: 50,
		CacheBytes:   32 * 1024 * 1024,
	}
}

// Service loads documents confined to one directory.
type Service struct {
	cfg       Config
	paths     *security.PathValidator
	validator *Validator
	reader    *Reader
	cache     *PageCache
	log       logger.Logger
}

func NewService(cfg Config, directory string, log logger.Logger) (*Service, error) {
	paths, err := security.NewPathValidator(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		cfg:       cfg,
		paths:     paths,
		validator: NewValidator(cfg.MaxFileSize),
		reader:    NewReader(cfg.MaxTextSize),
		cache:     NewPageCache(cfg.CacheBytes),
		log:       log,
	}, nil
}

func (s *Service) Directory() string { return s.paths.Root() }

func (s *Service) MaxFileSize() int64 { return s.cfg.MaxFileSize }

func (s *Service) CacheStats() CacheStats { return s.cache.Stats() }

// Load resolves path inside the document directory and reads its pages.
// Text files become a single page.
func (s *Service) Load(ctx context.Context, path string) (*Document, error) {
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return nil, newDocumentError(DocumentErrorOutsideRoot, path, "path rejected", err)
	}
	info, err := s.validator.Check(resolved)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !IsPDF(resolved) {
		return s.loadText(resolved, info.Size())
	}
	key := cacheKey{path: resolved, size: info.Size(), modTime: info.ModTime()}
	if doc, ok := s.cache.get(key); ok {
		s.log.Debug("pdf served from cache", "path", resolved)
		return doc, nil
	}
	doc, err := s.loadPDF(resolved, info.Size())
	if err != nil {
		return nil, err
	}
	s.cache.put(key, doc)
	return doc, nil
}

// PageTexts is Load reduced to the page strings.
func (s *Service) PageTexts(ctx context.Context, path string) ([]string, error) {
	doc, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return doc.Pages, nil
}

func (s *Service) loadPDF(path string, size int64) (*Document, error) {
	structure, err := Inspect(path)
	if err != nil {
		return nil, err
	}
	if structure.Warning != "" {
		s.log.Warn("pdf structure issues", "path", path, "warning", structure.Warning)
	}
	pages, images, err := s.reader.PageTexts(path)
	if err != nil {
		return nil, err
	}

	chars := 0
	for _, p := range pages {
		chars += utf8.RuneCountInString(strings.TrimSpace(p))
	}
	doc := &Document{
		Path:             path,
		Pages:            pages,
		PageCount:        structure.PageCount,
		Size:             size,
		ImageCount:       images,
		TextChars:        chars,
		ContentType:      contentType(chars, images, s.cfg.MinTextChars),
		StructureWarning: structure.Warning,
	}
	s.log.Debug("pdf loaded", "path", path, "pages", doc.PageCount, "chars", chars, "images", images)
	if doc.ContentType == ContentScanned {
		return nil, newDocumentError(DocumentErrorScanned, path,
			fmt.Sprintf("document looks scanned (%d characters of text, %d images)", chars, images), nil)
	}
	return doc, nil
}

func (s *Service) loadText(path string, size int64) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newDocumentError(DocumentErrorUnreadable, path, "failed to read file", err)
	}
	if !utf8.Valid(data) {
		return nil, newDocumentError(DocumentErrorUnreadable, path, "file is not valid UTF-8", nil)
	}
	text := truncate(string(data), s.cfg.MaxTextSize)
	return &Document{
		Path:        path,
		Pages:       []string{text},
		PageCount:   1,
		Size:        size,
		TextChars:   utf8.RuneCountInString(strings.TrimSpace(text)),
		ContentType: ContentPlain,
	}, nil
}

// Validate checks a path without extracting text. Problems are reported
// in the result, not as an error.
func (s *Service) Validate(path string) *ValidationResult {
	res := &ValidationResult{Path: path}
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		res.Message = err.Error()
		return res
	}
	if _, err := s.validator.Check(resolved); err != nil {
		res.Message = err.Error()
		return res
	}
	if IsPDF(resolved) {
		structure, err := Inspect(resolved)
		if err != nil {
			res.Message = err.Error()
			return res
		}
		res.Pages = structure.PageCount
		res.Message = structure.Warning
	}
	res.Valid = true
	return res
}

// ReadFile returns the raw bytes of a supported file inside the document
// directory, e.g. a reference file.
func (s *Service) ReadFile(path string) ([]byte, error) {
	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return nil, newDocumentError(DocumentErrorOutsideRoot, path, "path rejected", err)
	}
	if _, err := s.validator.Check(resolved); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, newDocumentError(DocumentErrorUnreadable, resolved, "failed to read file", err)
	}
	return data, nil
}
