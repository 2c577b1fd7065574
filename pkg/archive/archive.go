// Package archive unpacks the zip container the vendor's download
// endpoint delivers (one activity per archive, FIT file inside).
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractionError reports a failure opening the archive or writing one of
// its entries. Entry is empty when the archive itself could not be opened.
type ExtractionError struct {
	Entry string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("extract archive: %v", e.Err)
	}
	return fmt.Sprintf("extract archive entry %q: %v", e.Entry, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract unpacks every non-directory entry of the archive under dir,
// preserving entry names and overwriting existing files. The destination
// directory is created if absent. Returns the written paths in archive
// enumeration order.
func Extract(data []byte, dir string) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &ExtractionError{Err: err}
	}

	root := filepath.Clean(dir)
	var written []string
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		dest := filepath.Join(root, filepath.FromSlash(entry.Name))
		if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return nil, &ExtractionError{Entry: entry.Name, Err: errors.New("entry escapes destination directory")}
		}

		if err := writeEntry(entry, dest); err != nil {
			return nil, &ExtractionError{Entry: entry.Name, Err: err}
		}
		written = append(written, dest)
	}

	return written, nil
}

func writeEntry(entry *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FindByExtension scans dir's immediate entries for the first file whose
// name ends in ext, case-insensitively. The second return is false when no
// entry matches.
func FindByExtension(dir, ext string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	suffix := strings.ToLower(ext)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}
