// Package testutil provides shared test helpers for building source trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// MemTree creates an in-memory filesystem holding the given files. Each file
// gets its own path as content.
func MemTree(t *testing.T, files ...string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for _, f := range files {
		if err := util.WriteFile(fs, f, []byte(f), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	return fs
}

// DiskTree creates a temporary directory holding the given files and
// returns its path.
func DiskTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// AcceptAll answers yes to every question.
func AcceptAll(string, bool) (bool, error) { return true, nil }
