// Package models defines the domain types for slngen.
package models

import (
	"path"
	"sort"

	"github.com/starford/slngen/internal/ident"
)

// Kind is the classification of a source-tree file.
type Kind int

const (
	Unrecognized Kind = iota
	Source
	Header
	Resource
)

func (k Kind) String() string {
	switch k {
	case Source:
		return "source"
	case Header:
		return "header"
	case Resource:
		return "resource"
	default:
		return "unrecognized"
	}
}

// SourceFile is a classified file, relative to the source root.
// RelativePath always uses forward slashes.
type SourceFile struct {
	RelativePath string
	Kind         Kind
}

// SourceTree is an ordered list of source files in traversal order.
type SourceTree []SourceFile

// OfKind returns the files of kind k, preserving tree order.
func (t SourceTree) OfKind(k Kind) []SourceFile {
	var out []SourceFile
	for _, f := range t {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

// Paths returns the relative paths of the tree in order.
func (t SourceTree) Paths() []string {
	out := make([]string, len(t))
	for i, f := range t {
		out[i] = f.RelativePath
	}
	return out
}

// Project is the single buildable unit referenced by a Solution.
type Project struct {
	Name string
	ID   ident.ID
	// BaseDir is prepended to every file path in the project descriptor.
	// It is the forward-slash path from the output directory to the source
	// root, or empty when both coincide.
	BaseDir string
	Files   SourceTree
}

// IncludeDirectories returns the sorted, de-duplicated parent directories of
// all header files. The root directory is never included.
func (p *Project) IncludeDirectories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range p.Files {
		if f.Kind != Header {
			continue
		}
		dir := path.Dir(f.RelativePath)
		if dir == "." || dir == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// Solution is the top-level descriptor holding exactly one project.
type Solution struct {
	Name    string
	ID      ident.ID
	Project Project
}
