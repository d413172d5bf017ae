package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SLNGEN_TEST_NAME", "demo")
	p := writeFile(t, "name: ${SLNGEN_TEST_NAME}\ncount: 3\n")
	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "demo" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, "count: -1\n")
	var s sample
	err := Load(p, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Error("expected error")
	}
}

func TestLoadOptional(t *testing.T) {
	s := sample{Name: "default"}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if err != nil || found {
		t.Fatalf("found = %v, err = %v", found, err)
	}
	if s.Name != "default" {
		t.Errorf("defaults overwritten: %+v", s)
	}

	p := writeFile(t, "count: 7\n")
	found, err = LoadOptional(p, &s)
	if err != nil || !found {
		t.Fatalf("found = %v, err = %v", found, err)
	}
	if s.Name != "default" || s.Count != 7 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeFile(t, "name: [unterminated\n")
	var s sample
	if err := Load(p, &s); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("err = %v", err)
	}
}
