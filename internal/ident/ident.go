// Package ident assigns and parses the 128-bit identifiers that name
// solutions and projects.
package ident

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/slngen/internal/apperr"
)

// ID is a solution or project identifier.
type ID uuid.UUID

// Nil is the zero identifier.
var Nil ID

// New draws a fresh random identifier.
func New() ID {
	return ID(uuid.New())
}

// Parse accepts the canonical hyphenated form, with or without braces,
// in any letter case.
func Parse(text string) (ID, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = s[1 : len(s)-1]
	}
	if len(s) != 36 {
		return Nil, fmt.Errorf("ident: %q: %w", text, apperr.ErrMalformedIdentifier)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("ident: %q: %w", text, apperr.ErrMalformedIdentifier)
	}
	return ID(u), nil
}

// String renders the canonical uppercase hyphenated form.
func (id ID) String() string {
	return strings.ToUpper(uuid.UUID(id).String())
}

// Braced renders the form used inside solution manifests.
func (id ID) Braced() string {
	return "{" + id.String() + "}"
}
