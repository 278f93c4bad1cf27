// Package fs provides file-based storage for the structured act.
package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ndpa"
)

// LoadDocument reads and validates the structured document at path. The
// returned checksum identifies the exact file contents and is recorded with
// evaluation scores.
func LoadDocument(path string) (*ndpa.Document, string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ndpa.Errorf(ndpa.ENOTFOUND, "document not found: %s", path)
	} else if err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}

	doc, err := ndpa.DecodeDocument(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return doc, Checksum(data), nil
}

// Checksum returns the hex xxhash of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// WriteDocument writes doc to path as JSON. The file is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partial document.
func WriteDocument(path string, doc *ndpa.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	// Remove the temp file on any failure; after a successful rename this
	// is a no-op.
	defer os.Remove(tmp.Name())

	if err := ndpa.EncodeDocument(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
