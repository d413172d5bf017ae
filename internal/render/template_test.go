package render

import (
	"strings"
	"testing"
)

func TestNewTemplate_Valid(t *testing.T) {
	tmpl, err := NewTemplate("t", "a=$A b=$B dir=$(SolutionDir)", "A", "B")
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	got, err := tmpl.Execute(Values{"A": "1", "B": "$A"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "a=1 b=$A dir=$(SolutionDir)" {
		t.Errorf("got %q", got)
	}
}

func TestNewTemplate_Defects(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		slots []string
		want  string
	}{
		{"missing", "no slots here", []string{"A"}, "$A occurs 0 times"},
		{"repeated", "$A and $A", []string{"A"}, "$A occurs 2 times"},
		{"undeclared", "$A and $B", []string{"A"}, "undeclared slot $B"},
		{"prefix is distinct", "$NAME $NAMESPACE", []string{"NAME"}, "undeclared slot $NAMESPACE"},
	}
	for _, tc := range cases {
		_, err := NewTemplate(tc.name, tc.text, tc.slots...)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestMustTemplate_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustTemplate("bad", "$X $X", "X")
}

func TestExecute_ValueMismatch(t *testing.T) {
	tmpl := MustTemplate("t", "$A", "A")
	if _, err := tmpl.Execute(Values{}); err == nil {
		t.Error("expected missing value error")
	}
	if _, err := tmpl.Execute(Values{"A": "x", "B": "y"}); err == nil {
		t.Error("expected unknown slot error")
	}
	if tmpl.Name() != "t" {
		t.Errorf("Name = %q", tmpl.Name())
	}
}
