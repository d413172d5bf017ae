package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/starford/slngen/internal/apperr"
)

const tempPrefix = ".slngen-tmp-"

// FS implements Provider on top of a billy filesystem.
type FS struct {
	fs billy.Filesystem
}

// NewFS creates a provider rooted at the given directory on disk.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fs: osfs.New(abs)}, nil
}

// safePath rejects absolute paths and paths escaping the root.
func safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	slashed := filepath.ToSlash(rel)
	if path.IsAbs(slashed) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("storage: path escapes output root: %s", rel)
	}
	return cleaned, nil
}

// Exists implements Provider.
func (f *FS) Exists(p string) (bool, error) {
	clean, err := safePath(p)
	if err != nil {
		return false, err
	}
	_, err = f.fs.Stat(clean)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %s: %w", p, err)
	}
}

// Read implements Provider.
func (f *FS) Read(p string) ([]byte, error) {
	clean, err := safePath(p)
	if err != nil {
		return nil, err
	}
	data, err := util.ReadFile(f.fs, clean)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}

// Write atomically writes content: tmp file → sync → rename.
func (f *FS) Write(p string, content []byte) (bool, error) {
	clean, err := safePath(p)
	if err != nil {
		return false, err
	}

	if old, err := util.ReadFile(f.fs, clean); err == nil && bytes.Equal(old, content) {
		return false, nil
	}

	dir := path.Dir(clean)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("storage: mkdir %s: %w: %w", dir, apperr.ErrWriteFailure, err)
	}

	tmp, err := f.fs.TempFile(dir, tempPrefix)
	if err != nil {
		return false, fmt.Errorf("storage: create temp: %w: %w", apperr.ErrWriteFailure, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = f.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return false, fmt.Errorf("storage: write temp: %w: %w", apperr.ErrWriteFailure, err)
	}
	if s, ok := tmp.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return false, fmt.Errorf("storage: fsync: %w: %w", apperr.ErrWriteFailure, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("storage: close temp: %w: %w", apperr.ErrWriteFailure, err)
	}
	if err := f.fs.Rename(tmpName, clean); err != nil {
		return false, fmt.Errorf("storage: rename: %w: %w", apperr.ErrWriteFailure, err)
	}
	success = true
	return true, nil
}

// Copy implements Provider.
func (f *FS) Copy(src billy.Filesystem, srcPath, p string) error {
	clean, err := safePath(p)
	if err != nil {
		return err
	}
	in, err := src.Open(srcPath)
	if err != nil {
		return fmt.Errorf("storage: open source %s: %w", srcPath, err)
	}
	defer in.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, in); err != nil {
		return fmt.Errorf("storage: read source %s: %w", srcPath, err)
	}
	if _, err := f.Write(clean, buf.Bytes()); err != nil {
		return fmt.Errorf("storage: copy %s: %w", srcPath, err)
	}
	return nil
}
