// Package render produces the solution manifest, project descriptor and
// filter descriptor for a resolved solution.
package render

import (
	_ "embed"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/starford/slngen/internal/apperr"
	"github.com/starford/slngen/internal/classify"
	"github.com/starford/slngen/internal/models"
)

// File extensions of the generated artifacts.
const (
	SolutionExt = ".sln"
	ProjectExt  = ".vcxproj"
	FiltersExt  = ProjectExt + ".filters"
)

// ProjectTypeGUID is the Visual C++ project type.
const ProjectTypeGUID = "8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942"

// SolutionDirVar prefixes every additional include directory.
const SolutionDirVar = "$(SolutionDir)"

// Filter category labels.
const (
	SourceFilter   = "Source Files"
	HeaderFilter   = "Header Files"
	ResourceFilter = "Resource Files"
)

var (
	//go:embed templates/solution.sln.tmpl
	solutionText string
	//go:embed templates/project.vcxproj.tmpl
	projectText string
	//go:embed templates/project.vcxproj.filters.tmpl
	filtersText string
)

var (
	solutionTmpl = MustTemplate("solution", solutionText,
		"PROJECT_TYPE_GUID", "PROJECT_NAME", "PROJECT_PATH", "PROJECT_GUID",
		"PROJECT_CONFIGURATIONS", "SOLUTION_GUID")
	projectTmpl = MustTemplate("project", projectText,
		"PROJECT_GUID", "PROJECT_NAME", "PLATFORM_VERSION", "TOOLSET",
		"INCLUDE_DIRECTORIES", "COMPILE_ITEMS", "INCLUDE_ITEMS")
	filtersTmpl = MustTemplate("filters", filtersText,
		"SOURCE_EXTENSIONS", "HEADER_EXTENSIONS", "RESOURCE_EXTENSIONS", "FILTER_ITEMS")
	configLineTmpl = MustTemplate("configuration line",
		"\t\t{$PROJECT_GUID}.$SOLUTION_PLATFORM.$ACTION = $PROJECT_PLATFORM\n",
		"PROJECT_GUID", "SOLUTION_PLATFORM", "ACTION", "PROJECT_PLATFORM")
)

// solutionPlatforms maps solution configurations to project configurations.
var solutionPlatforms = []struct{ solution, project string }{
	{"Debug|x64", "Debug|x64"},
	{"Debug|x86", "Debug|Win32"},
	{"Release|x64", "Release|x64"},
	{"Release|x86", "Release|Win32"},
}

// Options holds project settings rendered into the project descriptor.
type Options struct {
	Toolset         string
	PlatformVersion string
}

// Artifacts is the rendered text of the three output files.
type Artifacts struct {
	Solution string
	Project  string
	Filters  string
}

// Renderer fills the artifact templates. It holds no mutable state.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render produces all three artifacts for sol. A project containing
// resource files fails with apperr.ErrUnsupportedFeature.
func (r *Renderer) Render(sol models.Solution) (Artifacts, error) {
	sln, err := r.Solution(sol)
	if err != nil {
		return Artifacts{}, err
	}
	proj, err := r.Project(sol.Project)
	if err != nil {
		return Artifacts{}, err
	}
	filters, err := r.Filters(sol.Project)
	if err != nil {
		return Artifacts{}, err
	}
	return Artifacts{Solution: sln, Project: proj, Filters: filters}, nil
}

// Solution renders the solution manifest.
func (r *Renderer) Solution(sol models.Solution) (string, error) {
	p := sol.Project
	var configs strings.Builder
	for _, plat := range solutionPlatforms {
		for _, action := range []string{"ActiveCfg", "Build.0"} {
			line, err := configLineTmpl.Execute(Values{
				"PROJECT_GUID":      p.ID.String(),
				"SOLUTION_PLATFORM": plat.solution,
				"ACTION":            action,
				"PROJECT_PLATFORM":  plat.project,
			})
			if err != nil {
				return "", err
			}
			configs.WriteString(line)
		}
	}
	return solutionTmpl.Execute(Values{
		"PROJECT_TYPE_GUID":      ProjectTypeGUID,
		"PROJECT_NAME":           p.Name,
		"PROJECT_PATH":           p.Name + ProjectExt,
		"PROJECT_GUID":           p.ID.String(),
		"PROJECT_CONFIGURATIONS": configs.String(),
		"SOLUTION_GUID":          sol.ID.String(),
	})
}

// Project renders the project descriptor.
func (r *Renderer) Project(p models.Project) (string, error) {
	var compile, include strings.Builder
	for _, f := range p.Files.OfKind(models.Source) {
		fmt.Fprintf(&compile, "    <ClCompile Include=\"%s\" />\n", escape(itemPath(p, f)))
	}
	for _, f := range p.Files.OfKind(models.Header) {
		fmt.Fprintf(&include, "    <ClInclude Include=\"%s\" />\n", escape(itemPath(p, f)))
	}

	dirs := p.IncludeDirectories()
	entries := make([]string, len(dirs))
	for i, d := range dirs {
		entries[i] = SolutionDirVar + path.Join(p.BaseDir, d)
	}

	return projectTmpl.Execute(Values{
		"PROJECT_GUID":        p.ID.String(),
		"PROJECT_NAME":        escape(p.Name),
		"PLATFORM_VERSION":    escape(r.opts.PlatformVersion),
		"TOOLSET":             escape(r.opts.Toolset),
		"INCLUDE_DIRECTORIES": escape(strings.Join(entries, ";")),
		"COMPILE_ITEMS":       compile.String(),
		"INCLUDE_ITEMS":       include.String(),
	})
}

// Filters renders the filter descriptor.
func (r *Renderer) Filters(p models.Project) (string, error) {
	if res := p.Files.OfKind(models.Resource); len(res) > 0 {
		return "", fmt.Errorf("render: %d resource file(s) starting with %q: resource filter entries: %w",
			len(res), res[0].RelativePath, apperr.ErrUnsupportedFeature)
	}

	var items strings.Builder
	for _, f := range p.Files.OfKind(models.Source) {
		filterItem(&items, "ClCompile", itemPath(p, f), SourceFilter)
	}
	for _, f := range p.Files.OfKind(models.Header) {
		filterItem(&items, "ClInclude", itemPath(p, f), HeaderFilter)
	}

	return filtersTmpl.Execute(Values{
		"SOURCE_EXTENSIONS":   strings.Join(classify.Extensions(models.Source), ";"),
		"HEADER_EXTENSIONS":   strings.Join(classify.Extensions(models.Header), ";"),
		"RESOURCE_EXTENSIONS": strings.Join(classify.Extensions(models.Resource), ";"),
		"FILTER_ITEMS":        items.String(),
	})
}

func filterItem(b *strings.Builder, element, file, filter string) {
	fmt.Fprintf(b, "    <%s Include=\"%s\">\n      <Filter>%s</Filter>\n    </%s>\n",
		element, escape(file), filter, element)
}

func itemPath(p models.Project, f models.SourceFile) string {
	if p.BaseDir == "" {
		return f.RelativePath
	}
	return path.Join(p.BaseDir, f.RelativePath)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
