package reconcile

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/starford/slngen/internal/apperr"
	"github.com/starford/slngen/internal/ident"
)

const manifestHeader = "Microsoft Visual Studio Solution File"

var (
	projectLineRe  = regexp.MustCompile(`(?m)^Project\("([^"]*)"\)\s*=\s*"([^"]*)",\s*"([^"]*)",\s*"([^"]*)"\s*$`)
	solutionGUIDRe = regexp.MustCompile(`(?m)^\s*SolutionGuid\s*=\s*(\S+)\s*$`)
)

// Manifest holds the identifiers recovered from a solution file.
type Manifest struct {
	SolutionID  ident.ID
	ProjectName string
	ProjectPath string
	ProjectID   ident.ID
}

// ParseManifest extracts the solution identifier and the single project
// declaration from a solution file. Structural problems wrap
// apperr.ErrUnparseableArtifact; bad identifiers wrap
// apperr.ErrMalformedIdentifier.
func ParseManifest(data []byte) (Manifest, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\r\n"), []byte(manifestHeader)) {
		return Manifest{}, fmt.Errorf("reconcile: missing solution header: %w", apperr.ErrUnparseableArtifact)
	}

	projects := projectLineRe.FindAllSubmatch(data, -1)
	switch len(projects) {
	case 0:
		return Manifest{}, fmt.Errorf("reconcile: no project declaration: %w", apperr.ErrUnparseableArtifact)
	case 1:
	default:
		return Manifest{}, fmt.Errorf("reconcile: %d project declarations, want 1: %w",
			len(projects), apperr.ErrUnparseableArtifact)
	}
	if !bytes.Contains(data, []byte("\nEndProject")) {
		return Manifest{}, fmt.Errorf("reconcile: unterminated project declaration: %w", apperr.ErrUnparseableArtifact)
	}

	sm := solutionGUIDRe.FindSubmatch(data)
	if sm == nil {
		return Manifest{}, fmt.Errorf("reconcile: no SolutionGuid: %w", apperr.ErrUnparseableArtifact)
	}

	p := projects[0]
	name := string(p[2])
	if name == "" {
		return Manifest{}, fmt.Errorf("reconcile: empty project name: %w", apperr.ErrUnparseableArtifact)
	}
	projectID, err := ident.Parse(string(p[4]))
	if err != nil {
		return Manifest{}, fmt.Errorf("reconcile: project %q: %w", name, err)
	}
	solutionID, err := ident.Parse(string(sm[1]))
	if err != nil {
		return Manifest{}, fmt.Errorf("reconcile: solution: %w", err)
	}

	return Manifest{
		SolutionID:  solutionID,
		ProjectName: name,
		ProjectPath: string(p[3]),
		ProjectID:   projectID,
	}, nil
}
