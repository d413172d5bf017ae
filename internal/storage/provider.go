// Package storage defines the output-tree file-system abstraction.
package storage

import "github.com/go-git/go-billy/v5"

// Provider is the interface for output-tree file operations. All paths are
// relative to the output root and use forward slashes.
type Provider interface {
	// Exists reports whether a file exists at path.
	Exists(path string) (bool, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content. It reports
	// false without touching the file when the content is unchanged.
	Write(path string, content []byte) (bool, error)
	// Copy copies srcPath from src to path, creating parent directories.
	Copy(src billy.Filesystem, srcPath, path string) error
}
