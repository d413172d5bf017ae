package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/slngen/internal/apperr"
)

// Request describes one generation run.
type Request struct {
	SourceDir    string
	OutputDir    string
	SolutionName string
	Recursive    bool
	Overwrite    bool
	// CopySources copies accepted files into the output tree.
	CopySources bool
	// Capitalize applies to fresh project names only.
	Capitalize bool
}

// NewRequest builds a request from the positional arguments
// SOURCE_DIR [OUTPUT_DIR] [SOLUTION_NAME]. The output directory defaults to
// the source directory and the solution name to its base name.
func NewRequest(args []string) (Request, error) {
	if len(args) == 0 {
		return Request{}, fmt.Errorf("source directory is required: %w", apperr.ErrInvalidArguments)
	}
	if len(args) > 3 {
		return Request{}, fmt.Errorf("expected at most 3 arguments, got %d: %w", len(args), apperr.ErrInvalidArguments)
	}
	for i, a := range args {
		if strings.TrimSpace(a) == "" {
			return Request{}, fmt.Errorf("argument %d is empty: %w", i+1, apperr.ErrInvalidArguments)
		}
	}

	req := Request{SourceDir: filepath.Clean(args[0])}
	req.OutputDir = req.SourceDir
	if len(args) > 1 {
		req.OutputDir = filepath.Clean(args[1])
	}
	if len(args) > 2 {
		req.SolutionName = args[2]
	} else {
		abs, err := filepath.Abs(req.SourceDir)
		if err != nil {
			return Request{}, fmt.Errorf("resolve %s: %w", req.SourceDir, apperr.ErrInvalidArguments)
		}
		req.SolutionName = filepath.Base(abs)
	}
	if strings.ContainsAny(req.SolutionName, `/\"`) {
		return Request{}, fmt.Errorf("solution name %q contains a path separator or quote: %w",
			req.SolutionName, apperr.ErrInvalidArguments)
	}
	return req, nil
}

// ProjectName returns the name a fresh project receives.
func (r Request) ProjectName() string {
	if r.Capitalize {
		return capitalize(r.SolutionName)
	}
	return r.SolutionName
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
