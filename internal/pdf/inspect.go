package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Structure is what pdfcpu reports about a file.
type Structure struct {
	PageCount int
	// Warning holds the relaxed validation error, if any.
	Warning string
}

// Inspect reads the cross-reference structure with pdfcpu in relaxed mode,
// returning the page count. A file pdfcpu cannot read at all is unreadable;
// validation problems on a readable file are only a warning.
func Inspect(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newDocumentError(DocumentErrorUnreadable, path, "failed to open file", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, newDocumentError(DocumentErrorUnreadable, path, "failed to read PDF structure", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, newDocumentError(DocumentErrorUnreadable, path, "failed to count pages", err)
	}

	s := &Structure{PageCount: ctx.PageCount}
	if err := api.ValidateContext(ctx); err != nil {
		s.Warning = fmt.Sprintf("structure validation: %v", err)
	}
	return s, nil
}
