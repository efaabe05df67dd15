// Package covers stores book cover images on the local filesystem.
//
// Uploads are staged into a pending area first; a staged file only becomes
// public once the matching database update has committed. That ordering
// keeps the cover directory free of images for books that were never saved.
package covers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions lists the accepted cover image file extensions.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Store manages the public cover directory and its pending staging area.
type Store struct {
	dir        string
	pendingDir string
}

// NewStore creates a cover store rooted at dir.
func NewStore(dir string) (*Store, error) {
	pendingDir := filepath.Join(dir, ".pending")
	if err := os.MkdirAll(pendingDir, 0755); err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}

	return &Store{
		dir:        dir,
		pendingDir: pendingDir,
	}, nil
}

// Dir returns the public cover directory, used for static file serving.
func (s *Store) Dir() string {
	return s.dir
}

// ValidExtension reports whether the filename carries an accepted image
// extension.
func ValidExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// StagePending writes an uploaded cover into the pending area under its
// final filename. The write goes through a temp file and a rename so a
// half-written upload never sits at the pending path.
func (s *Store) StagePending(filename string, r io.Reader) error {
	filename = filepath.Base(filename)
	if !ValidExtension(filename) {
		return fmt.Errorf("invalid cover file type: %s", filename)
	}

	tmp, err := os.CreateTemp(s.pendingDir, "upload-"+uuid.NewString()+"-*")
	if err != nil {
		return fmt.Errorf("create temp cover file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write cover file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close cover file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(s.pendingDir, filename)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage cover file: %w", err)
	}
	return nil
}

// Promote moves a staged cover from the pending area to the public
// directory. When no staged file exists but the public file is already in
// place, the promotion is a no-op; this covers updates that re-assert an
// existing cover path without a fresh upload.
func (s *Store) Promote(filename string) error {
	filename = filepath.Base(filename)
	pendingPath := filepath.Join(s.pendingDir, filename)
	publicPath := filepath.Join(s.dir, filename)

	if _, err := os.Stat(pendingPath); err != nil {
		if os.IsNotExist(err) {
			if _, statErr := os.Stat(publicPath); statErr == nil {
				return nil
			}
			return fmt.Errorf("no staged cover for %s", filename)
		}
		return fmt.Errorf("stat staged cover: %w", err)
	}

	if err := os.Rename(pendingPath, publicPath); err != nil {
		return fmt.Errorf("promote cover %s: %w", filename, err)
	}
	return nil
}

// Delete removes a public cover file. A missing file is not an error: the
// row may have been stored without a cover, or the file already cleaned up.
func (s *Store) Delete(filename string) error {
	filename = filepath.Base(filename)
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cover %s: %w", filename, err)
	}
	return nil
}

// Exists reports whether a public cover file is present.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filepath.Base(filename)))
	return err == nil
}
