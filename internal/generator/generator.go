// Package generator runs the discovery, reconciliation, rendering and
// writing pipeline that produces a solution, project and filter descriptor.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/starford/slngen/internal/apperr"
	"github.com/starford/slngen/internal/checksum"
	"github.com/starford/slngen/internal/models"
	"github.com/starford/slngen/internal/reconcile"
	"github.com/starford/slngen/internal/render"
	"github.com/starford/slngen/internal/storage"
	"github.com/starford/slngen/internal/walker"
)

// Artifact is one written (or unchanged) output file.
type Artifact struct {
	Path     string
	Checksum string
	Written  bool
}

// Report summarises a generation run.
type Report struct {
	Solution  models.Solution
	Origin    reconcile.Origin
	Cause     reconcile.Cause
	Copied    int
	Artifacts []Artifact
}

// Generator runs generation requests.
type Generator struct {
	renderer *render.Renderer
	decide   walker.Decider
	logger   *slog.Logger
}

// New creates a Generator.
func New(renderer *render.Renderer, decide walker.Decider, logger *slog.Logger) *Generator {
	return &Generator{renderer: renderer, decide: decide, logger: logger}
}

// Generate discovers the source tree, resolves identifiers against any
// existing solution in the output directory and writes the three
// artifacts. Nothing is written when discovery or rendering fails; a write
// failure may leave earlier artifacts of the same run in place.
func (g *Generator) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	srcAbs, err := filepath.Abs(req.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("generate: resolve source: %w", err)
	}
	info, err := os.Stat(srcAbs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("generate: %s: %w", req.SourceDir, apperr.ErrSourceDirMissing)
	}
	outAbs, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("generate: resolve output: %w", err)
	}

	opts := walker.Options{Recursive: req.Recursive}
	if nested, ok := within(srcAbs, outAbs); ok {
		opts.Exclude = append(opts.Exclude, nested)
		g.logger.Debug("Output directory excluded from discovery", slog.String("path", nested))
	}

	src := osfs.New(srcAbs)
	tree, err := walker.Walk(src, opts, g.decide)
	if err != nil {
		return nil, fmt.Errorf("generate: discover: %w", err)
	}
	g.logger.Info("Source tree discovered",
		slog.String("source", srcAbs),
		slog.Int("sources", len(tree.OfKind(models.Source))),
		slog.Int("headers", len(tree.OfKind(models.Header))),
		slog.Int("resources", len(tree.OfKind(models.Resource))))

	if err := os.MkdirAll(outAbs, 0o755); err != nil {
		return nil, fmt.Errorf("generate: create output dir: %w: %w", apperr.ErrWriteFailure, err)
	}
	out, err := storage.NewFS(outAbs)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	slnPath := req.SolutionName + render.SolutionExt
	res := reconcile.New(out).Resolve(reconcile.Request{
		Path:         slnPath,
		SolutionName: req.SolutionName,
		ProjectName:  req.ProjectName(),
		Overwrite:    req.Overwrite,
	})
	if res.Err != nil {
		g.logger.Warn("Existing solution could not be reused, generating fresh identifiers",
			slog.String("path", slnPath),
			slog.String("error", res.Err.Error()))
	}
	g.logger.Info("Identifiers resolved",
		slog.String("origin", res.Origin.String()),
		slog.String("cause", string(res.Cause)),
		slog.String("solution_guid", res.Solution.ID.String()),
		slog.String("project_guid", res.Solution.Project.ID.String()))

	sol := res.Solution
	sol.Project.Files = tree

	copySources := req.CopySources && srcAbs != outAbs
	if !copySources {
		sol.Project.BaseDir, err = baseDir(outAbs, srcAbs)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
	}

	artifacts, err := g.renderer.Render(sol)
	if err != nil {
		return nil, fmt.Errorf("generate: render: %w", err)
	}

	report := &Report{Solution: sol, Origin: res.Origin, Cause: res.Cause}

	if copySources {
		if err := g.copyTree(src, out, tree); err != nil {
			return nil, err
		}
		report.Copied = len(tree)
	}

	files := []struct {
		path    string
		content string
	}{
		{slnPath, artifacts.Solution},
		{sol.Project.Name + render.ProjectExt, artifacts.Project},
		{sol.Project.Name + render.FiltersExt, artifacts.Filters},
	}
	for _, f := range files {
		data := []byte(f.content)
		written, err := out.Write(f.path, data)
		if err != nil {
			return report, fmt.Errorf("generate: write %s: %w", f.path, err)
		}
		a := Artifact{Path: f.path, Checksum: checksum.Sum(data), Written: written}
		report.Artifacts = append(report.Artifacts, a)
		g.logger.Info("Artifact",
			slog.String("path", filepath.Join(outAbs, f.path)),
			slog.Bool("written", written),
			slog.String("checksum", checksum.Short(data)))
	}

	return report, nil
}

func (g *Generator) copyTree(src billy.Filesystem, out storage.Provider, tree models.SourceTree) error {
	for _, f := range tree {
		if err := out.Copy(src, f.RelativePath, f.RelativePath); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		g.logger.Debug("Copied source", slog.String("path", f.RelativePath))
	}
	return nil
}

// within returns the forward-slash path of dir relative to root when dir
// lies strictly beneath root.
func within(root, dir string) (string, bool) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

// baseDir returns the forward-slash path from the output directory to the
// source directory, or "" when they coincide.
func baseDir(outAbs, srcAbs string) (string, error) {
	rel, err := filepath.Rel(outAbs, srcAbs)
	if err != nil {
		return "", fmt.Errorf("relate %s to %s: %w", srcAbs, outAbs, err)
	}
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." {
		return "", nil
	}
	return rel, nil
}
