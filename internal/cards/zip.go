package cards

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// ZipFile is one entry to be bundled into an archive.
type ZipFile struct {
	Name string
	Data []byte
}

// BuildZip bundles the files into a single ZIP archive, preserving order.
func BuildZip(files []ZipFile) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		entry, err := w.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
