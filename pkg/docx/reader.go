package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
)

// Reader gives raw access to the parts of a .docx archive.
type Reader struct {
	parts map[string]*zip.File
}

// NewReader opens a .docx archive of the given size.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &Reader{parts: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		dr.parts[f.Name] = f
	}

	if _, ok := dr.parts[PartDocument]; !ok {
		return nil, ErrNotDocx
	}
	return dr, nil
}

// OpenFile reads the archive at path into memory and opens it.
func OpenFile(path string) (*Reader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	r, err := NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	return r, nil
}

// ListParts returns the part names in sorted order.
func (r *Reader) ListParts() []string {
	names := make([]string, 0, len(r.parts))
	for name := range r.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPart returns the content of a part.
func (r *Reader) GetPart(name string) ([]byte, error) {
	f, ok := r.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", name, err)
	}
	return content, nil
}
