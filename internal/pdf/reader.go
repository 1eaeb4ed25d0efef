package pdf

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts per-page text with ledongthuc/pdf.
type Reader struct {
	maxTextSize int
}

func NewReader(maxTextSize int) *Reader {
	if maxTextSize <= 0 {
		maxTextSize = 10 * 1024 * 1024
	}
	return &Reader{maxTextSize: maxTextSize}
}

// PageTexts returns one string per page, in order, and the number of image
// XObjects seen. Pages that fail to decode yield an empty string.
func (r *Reader) PageTexts(path string) ([]string, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, 0, newDocumentError(DocumentErrorUnreadable, path, "failed to open PDF", err)
	}
	defer f.Close()

	n := reader.NumPage()
	pages := make([]string, 0, n)
	images, total := 0, 0
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		images += countImages(page)
		text := pageText(page)
		if total+len(text) > r.maxTextSize {
			text = truncate(text, r.maxTextSize-total)
		}
		total += len(text)
		pages = append(pages, text)
	}
	return pages, images, nil
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// countImages counts image XObjects in the page resources.
func countImages(page pdf.Page) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()
	if page.V.IsNull() {
		return 0
	}
	xObjects := page.V.Key("Resources").Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}
	for _, key := range xObjects.Keys() {
		if xObjects.Key(key).Key("Subtype").Name() == "Image" {
			count++
		}
	}
	return count
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	s = s[:n]
	// do not split a rune
	return strings.ToValidUTF8(s, "")
}

// contentType classifies a document from its extracted text and images.
func contentType(textChars, images, minTextChars int) string {
	switch {
	case textChars == 0 && images == 0:
		return ContentEmpty
	case textChars < minTextChars && images > 0:
		return ContentScanned
	case textChars < minTextChars:
		return ContentEmpty
	case images > 0:
		return ContentMixed
	default:
		return ContentText
	}
}
