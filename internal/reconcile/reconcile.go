// Package reconcile decides whether a run reuses the identifiers of an
// existing solution file or mints fresh ones.
package reconcile

import (
	"github.com/starford/slngen/internal/ident"
	"github.com/starford/slngen/internal/models"
	"github.com/starford/slngen/internal/storage"
)

// Origin tells where a resolved solution's identifiers came from.
type Origin int

const (
	// Fresh identifiers were drawn for this run.
	Fresh Origin = iota
	// Reused identifiers were parsed from the existing solution file.
	Reused
)

func (o Origin) String() string {
	if o == Reused {
		return "reused"
	}
	return "fresh"
}

// Cause explains a Fresh resolution.
type Cause string

const (
	CauseNone        Cause = ""
	CauseOverwrite   Cause = "overwrite"
	CauseMissing     Cause = "missing"
	CauseUnparseable Cause = "unparseable"
)

// Request describes the solution to resolve.
type Request struct {
	// Path of the solution file within the output tree.
	Path         string
	SolutionName string
	// ProjectName names a fresh project. Defaults to SolutionName.
	ProjectName string
	Overwrite   bool
}

// Resolution is the tagged result of Resolve. Solution.Project.Files is
// always empty.
type Resolution struct {
	Solution models.Solution
	Origin   Origin
	Cause    Cause
	// Err is the parse or read failure behind CauseUnparseable.
	Err error
}

// Reconciler resolves solutions against an output tree.
type Reconciler struct {
	store storage.Provider
	newID func() ident.ID
}

// New creates a Reconciler reading from store.
func New(store storage.Provider) *Reconciler {
	return &Reconciler{store: store, newID: ident.New}
}

// Resolve never fails: unreadable or malformed solution files fall back to
// fresh identifiers, reported through Resolution.Cause and Resolution.Err.
func (r *Reconciler) Resolve(req Request) Resolution {
	if req.Overwrite {
		return r.fresh(req, CauseOverwrite, nil)
	}

	ok, err := r.store.Exists(req.Path)
	if err != nil {
		return r.fresh(req, CauseUnparseable, err)
	}
	if !ok {
		return r.fresh(req, CauseMissing, nil)
	}
	data, err := r.store.Read(req.Path)
	if err != nil {
		return r.fresh(req, CauseUnparseable, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return r.fresh(req, CauseUnparseable, err)
	}

	return Resolution{
		Solution: models.Solution{
			Name: req.SolutionName,
			ID:   m.SolutionID,
			Project: models.Project{
				Name: m.ProjectName,
				ID:   m.ProjectID,
			},
		},
		Origin: Reused,
	}
}

func (r *Reconciler) fresh(req Request, cause Cause, err error) Resolution {
	name := req.ProjectName
	if name == "" {
		name = req.SolutionName
	}
	return Resolution{
		Solution: models.Solution{
			Name: req.SolutionName,
			ID:   r.newID(),
			Project: models.Project{
				Name: name,
				ID:   r.newID(),
			},
		},
		Origin: Fresh,
		Cause:  cause,
		Err:    err,
	}
}
