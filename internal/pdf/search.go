package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List walks a directory for supported documents, optionally filtered by
// a case-insensitive query on the file name.
func (s *Service) List(req ListRequest) (*ListResult, error) {
	dir := req.Directory
	if dir == "" {
		dir = s.paths.Root()
	}
	dir, err := s.paths.Resolve(dir)
	if err != nil {
		return nil, newDocumentError(DocumentErrorOutsideRoot, req.Directory, "directory rejected", err)
	}
	query := strings.ToLower(strings.TrimSpace(req.Query))

	files := make([]FileInfo, 0)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // keep walking past unreadable entries
		}
		if info.IsDir() {
			if _, rerr := s.paths.Resolve(path); rerr != nil {
				return filepath.SkipDir
			}
			return nil
		}
		if s.validator.CheckInfo(path, info) != nil {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}
		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &ListResult{Files: files, TotalCount: len(files), Directory: dir, Query: req.Query}, nil
}
