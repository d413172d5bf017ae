// Package walker discovers classified source files under a root directory.
//
// Discovery is split in two stages. Discover is a pure, lazy traversal of a
// billy filesystem; Select consumes that sequence and consults a Decider for
// every directory and file, pruning rejected subtrees. Only Select performs
// interaction, so the traversal can be tested without a terminal.
//
// Symbolic link cycles are not detected.
package walker

import (
	"fmt"
	"iter"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/starford/slngen/internal/classify"
	"github.com/starford/slngen/internal/models"
)

// Entry is a discovered directory or recognized file. Path is relative to
// the traversal root and uses forward slashes.
type Entry struct {
	Path string
	Dir  bool
	Kind models.Kind
}

// Decider answers inclusion questions.
type Decider interface {
	Confirm(prompt string, def bool) (bool, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(prompt string, def bool) (bool, error)

// Confirm calls f.
func (f DeciderFunc) Confirm(prompt string, def bool) (bool, error) {
	return f(prompt, def)
}

// Options controls traversal.
type Options struct {
	Recursive bool
	// Exclude lists directories, relative to the root, that are neither
	// yielded nor entered.
	Exclude []string
}

// Discover lists fsys depth-first in name order. A directory entry is
// yielded before its contents, and its contents are read only if skip
// (when non-nil) returns false for it after the yield. When
// opts.Recursive is false, subdirectories are neither yielded nor entered.
// Files with unrecognized extensions are skipped.
func Discover(fsys billy.Filesystem, opts Options, skip func(dir string) bool) iter.Seq2[Entry, error] {
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, d := range opts.Exclude {
		excluded[path.Clean(d)] = struct{}{}
	}
	return func(yield func(Entry, error) bool) {
		t := traversal{fsys: fsys, recursive: opts.Recursive, excluded: excluded, skip: skip, yield: yield}
		t.dir(".")
	}
}

type traversal struct {
	fsys      billy.Filesystem
	recursive bool
	excluded  map[string]struct{}
	skip      func(string) bool
	yield     func(Entry, error) bool
}

// dir returns false when the consumer stopped the iteration.
func (t *traversal) dir(dir string) bool {
	infos, err := t.fsys.ReadDir(dir)
	if err != nil {
		return t.yield(Entry{}, fmt.Errorf("walker: read dir %q: %w", dir, err))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	for _, info := range infos {
		rel := path.Join(dir, info.Name())
		if info.IsDir() {
			if !t.recursive {
				continue
			}
			if _, ok := t.excluded[rel]; ok {
				continue
			}
			if !t.yield(Entry{Path: rel, Dir: true}, nil) {
				return false
			}
			if t.skip != nil && t.skip(rel) {
				continue
			}
			if !t.dir(rel) {
				return false
			}
			continue
		}
		kind := classify.Classify(rel)
		if kind == models.Unrecognized {
			continue
		}
		if !t.yield(Entry{Path: rel, Kind: kind}, nil) {
			return false
		}
	}
	return true
}

// Pruned records directories rejected during selection.
type Pruned struct {
	prefixes []string
}

// Add marks dir and everything beneath it as pruned.
func (p *Pruned) Add(dir string) {
	p.prefixes = append(p.prefixes, dir+"/")
}

// Covers reports whether p is a pruned directory or lies beneath one.
func (p *Pruned) Covers(rel string) bool {
	for _, pre := range p.prefixes {
		if rel+"/" == pre || strings.HasPrefix(rel, pre) {
			return true
		}
	}
	return false
}

// Select filters discovered entries through decide, recording rejected
// directories in pruned. Entries beneath a pruned directory are dropped
// without further questions. Passing the same pruned to Discover as its
// skip function stops the traversal from reading rejected directories.
func Select(entries iter.Seq2[Entry, error], decide Decider, pruned *Pruned) (models.SourceTree, error) {
	if pruned == nil {
		pruned = &Pruned{}
	}
	var tree models.SourceTree
	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		if pruned.Covers(e.Path) {
			continue
		}
		if e.Dir {
			ok, err := decide.Confirm(fmt.Sprintf("Include directory %s?", e.Path), true)
			if err != nil {
				return nil, fmt.Errorf("walker: confirm %q: %w", e.Path, err)
			}
			if !ok {
				pruned.Add(e.Path)
			}
			continue
		}
		ok, err := decide.Confirm(fmt.Sprintf("Include %s in the build?", e.Path), true)
		if err != nil {
			return nil, fmt.Errorf("walker: confirm %q: %w", e.Path, err)
		}
		if ok {
			tree = append(tree, models.SourceFile{RelativePath: e.Path, Kind: e.Kind})
		}
	}
	return tree, nil
}

// Walk discovers and selects in one call. Rejected directories are never
// read.
func Walk(fsys billy.Filesystem, opts Options, decide Decider) (models.SourceTree, error) {
	pruned := &Pruned{}
	return Select(Discover(fsys, opts, pruned.Covers), decide, pruned)
}
