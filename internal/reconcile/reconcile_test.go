package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/slngen/internal/apperr"
	"github.com/starford/slngen/internal/ident"
	"github.com/starford/slngen/internal/models"
	"github.com/starford/slngen/internal/render"
	"github.com/starford/slngen/internal/storage"
)

// outputTree returns a provider over a temp dir holding the given files.
func outputTree(t *testing.T, files map[string]string) *storage.FS {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return store
}

func renderedManifest(t *testing.T, sol models.Solution) string {
	t.Helper()
	text, err := render.New(render.Options{Toolset: "v142", PlatformVersion: "10.0"}).Solution(sol)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return text
}

func demo() models.Solution {
	return models.Solution{
		Name:    "Demo",
		ID:      ident.New(),
		Project: models.Project{Name: "Demo", ID: ident.New()},
	}
}

func TestParseManifest_RoundTrip(t *testing.T) {
	sol := demo()
	m, err := ParseManifest([]byte(renderedManifest(t, sol)))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.SolutionID != sol.ID || m.ProjectID != sol.Project.ID {
		t.Errorf("ids = %v/%v, want %v/%v", m.SolutionID, m.ProjectID, sol.ID, sol.Project.ID)
	}
	if m.ProjectName != "Demo" || m.ProjectPath != "Demo.vcxproj" {
		t.Errorf("project = %q %q", m.ProjectName, m.ProjectPath)
	}
}

func TestParseManifest_CRLFAndBOM(t *testing.T) {
	sol := demo()
	text := "\xef\xbb\xbf" + strings.ReplaceAll(renderedManifest(t, sol), "\n", "\r\n")
	m, err := ParseManifest([]byte(text))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if m.ProjectID != sol.Project.ID {
		t.Errorf("project id = %v", m.ProjectID)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	valid := renderedManifest(t, demo())
	pid := demo().Project.ID
	cases := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", apperr.ErrUnparseableArtifact},
		{"no header", strings.Replace(valid, "Microsoft Visual Studio Solution File", "Something", 1), apperr.ErrUnparseableArtifact},
		{"no project", projectLineRe.ReplaceAllString(valid, ""), apperr.ErrUnparseableArtifact},
		{"two projects", strings.Replace(valid, "EndProject\n", "EndProject\n"+
			`Project("{X}") = "B", "B.vcxproj", "`+pid.Braced()+`"`+"\nEndProject\n", 1), apperr.ErrUnparseableArtifact},
		{"no solution guid", solutionGUIDRe.ReplaceAllString(valid, ""), apperr.ErrUnparseableArtifact},
		{"bad solution guid", solutionGUIDRe.ReplaceAllString(valid, "\t\tSolutionGuid = {nope}"), apperr.ErrMalformedIdentifier},
		{"bad project guid", projectLineRe.ReplaceAllString(valid, `Project("{X}") = "Demo", "Demo.vcxproj", "{123}"`), apperr.ErrMalformedIdentifier},
	}
	for _, tc := range cases {
		_, err := ParseManifest([]byte(tc.text))
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestResolve_MissingIsFresh(t *testing.T) {
	r := New(outputTree(t, nil))
	res := r.Resolve(Request{Path: "Demo.sln", SolutionName: "Demo"})
	if res.Origin != Fresh || res.Cause != CauseMissing || res.Err != nil {
		t.Fatalf("res = %+v", res)
	}
	if res.Solution.Name != "Demo" || res.Solution.Project.Name != "Demo" {
		t.Errorf("names = %q/%q", res.Solution.Name, res.Solution.Project.Name)
	}
	if res.Solution.ID == ident.Nil || res.Solution.Project.ID == ident.Nil || res.Solution.ID == res.Solution.Project.ID {
		t.Errorf("ids = %v/%v", res.Solution.ID, res.Solution.Project.ID)
	}
}

func TestResolve_ReusesExisting(t *testing.T) {
	sol := demo()
	fs := outputTree(t, map[string]string{"Demo.sln": renderedManifest(t, sol)})
	res := New(fs).Resolve(Request{Path: "Demo.sln", SolutionName: "Demo", ProjectName: "Other"})
	if res.Origin != Reused || res.Cause != CauseNone {
		t.Fatalf("res = %+v", res)
	}
	if res.Solution.ID != sol.ID || res.Solution.Project.ID != sol.Project.ID {
		t.Error("identifiers not reused")
	}
	if res.Solution.Project.Name != "Demo" {
		t.Errorf("project name = %q, want name from the existing file", res.Solution.Project.Name)
	}
	if len(res.Solution.Project.Files) != 0 {
		t.Error("files must not be inherited")
	}
}

func TestResolve_OverwriteIsFresh(t *testing.T) {
	sol := demo()
	fs := outputTree(t, map[string]string{"Demo.sln": renderedManifest(t, sol)})
	res := New(fs).Resolve(Request{Path: "Demo.sln", SolutionName: "Demo", Overwrite: true})
	if res.Origin != Fresh || res.Cause != CauseOverwrite {
		t.Fatalf("res = %+v", res)
	}
	if res.Solution.Project.ID == sol.Project.ID {
		t.Error("overwrite reused the old project identifier")
	}
}

func TestResolve_GarbageFallsBack(t *testing.T) {
	fs := outputTree(t, map[string]string{"Demo.sln": "garbage"})
	res := New(fs).Resolve(Request{Path: "Demo.sln", SolutionName: "Demo"})
	if res.Origin != Fresh || res.Cause != CauseUnparseable {
		t.Fatalf("res = %+v", res)
	}
	if !errors.Is(res.Err, apperr.ErrUnparseableArtifact) {
		t.Errorf("Err = %v", res.Err)
	}
}

func TestResolve_InjectedIdentifiers(t *testing.T) {
	a, b := ident.New(), ident.New()
	queue := []ident.ID{a, b}
	r := New(outputTree(t, nil))
	r.newID = func() ident.ID {
		id := queue[0]
		queue = queue[1:]
		return id
	}
	res := r.Resolve(Request{Path: "x.sln", SolutionName: "x"})
	if res.Solution.ID != a || res.Solution.Project.ID != b {
		t.Errorf("ids = %v/%v", res.Solution.ID, res.Solution.Project.ID)
	}
}

func TestResolve_EscapingPathFallsBack(t *testing.T) {
	res := New(outputTree(t, nil)).Resolve(Request{Path: "../Demo.sln", SolutionName: "Demo"})
	if res.Origin != Fresh || res.Cause != CauseUnparseable || res.Err == nil {
		t.Fatalf("res = %+v", res)
	}
}

func TestOriginString(t *testing.T) {
	if Fresh.String() != "fresh" || Reused.String() != "reused" {
		t.Error("unexpected Origin strings")
	}
}
