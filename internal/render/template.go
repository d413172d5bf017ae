package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderRe matches slot tokens such as $PROJECT_GUID. MSBuild
// properties like $(SolutionDir) do not match.
var placeholderRe = regexp.MustCompile(`\$[A-Z][A-Z0-9_]*`)

// Values maps slot names (without the leading $) to replacement text.
type Values map[string]string

// Template is a text with named slots, each occurring exactly once.
type Template struct {
	name  string
	text  string
	slots map[string]struct{}
}

// NewTemplate validates that every declared slot appears exactly once in
// text and that text contains no undeclared slot tokens.
func NewTemplate(name, text string, slots ...string) (*Template, error) {
	declared := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		declared[s] = struct{}{}
	}

	counts := make(map[string]int)
	for _, tok := range placeholderRe.FindAllString(text, -1) {
		counts[tok[1:]]++
	}

	var problems []string
	for s := range declared {
		if n := counts[s]; n != 1 {
			problems = append(problems, fmt.Sprintf("slot $%s occurs %d times", s, n))
		}
	}
	for s := range counts {
		if _, ok := declared[s]; !ok {
			problems = append(problems, fmt.Sprintf("undeclared slot $%s", s))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("render: template %s: %s", name, strings.Join(problems, "; "))
	}

	return &Template{name: name, text: text, slots: declared}, nil
}

// MustTemplate is like NewTemplate but panics on an invalid template.
func MustTemplate(name, text string, slots ...string) *Template {
	t, err := NewTemplate(name, text, slots...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Execute replaces every slot with its value. values must supply exactly
// the declared slots. Replacement text is never rescanned for slots.
func (t *Template) Execute(values Values) (string, error) {
	for s := range t.slots {
		if _, ok := values[s]; !ok {
			return "", fmt.Errorf("render: template %s: missing value for $%s", t.name, s)
		}
	}
	for s := range values {
		if _, ok := t.slots[s]; !ok {
			return "", fmt.Errorf("render: template %s: unknown slot $%s", t.name, s)
		}
	}
	return placeholderRe.ReplaceAllStringFunc(t.text, func(tok string) string {
		return values[tok[1:]]
	}), nil
}
