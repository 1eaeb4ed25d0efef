package pdf

// Content types reported for a loaded document.
const (
	ContentText    = "text"
	ContentMixed   = "mixed"
	ContentScanned = "scanned_images"
	ContentEmpty   = "no_content"
	ContentPlain   = "plain_text"
)

// FileInfo describes a document found in the document directory.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Document is a loaded document: its per-page text plus what was learned
// about it while reading.
type Document struct {
	Path        string   `json:"path"`
	Pages       []string `json:"-"`
	PageCount   int      `json:"pages"`
	Size        int64    `json:"size"`
	ImageCount  int      `json:"image_count"`
	TextChars   int      `json:"text_chars"`
	ContentType string   `json:"content_type"`
	// StructureWarning is set when the structural check reported problems
	// that did not prevent text extraction.
	StructureWarning string `json:"structure_warning,omitempty"`
}

// ValidationResult is the outcome of validating a document path.
type ValidationResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

type ListRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

type ListResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
}
