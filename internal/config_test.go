package internal

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestApplicationConfig_EmptyFormatDefaultsText(t *testing.T) {
	cfg := ApplicationConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty format should default to text: %v", err)
	}
	if cfg.LogFormat != LogFormatText {
		t.Errorf("format = %q, want %q", cfg.LogFormat, LogFormatText)
	}
}

func TestApplicationConfig_InvalidFormat(t *testing.T) {
	cfg := ApplicationConfig{LogFormat: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid format should fail validation")
	}
}

func TestApplicationConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := ApplicationConfig{LogFormat: LogFormatJSON}
	cfg.NewLogger(&buf).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json logger wrote %q", buf.String())
	}

	buf.Reset()
	cfg.LogFormat = LogFormatText
	cfg.NewLogger(&buf).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text logger wrote %q", buf.String())
	}
}

func TestProjectConfig_Toolset(t *testing.T) {
	for _, ts := range []string{"v142", "v143", "v141_xp"} {
		cfg := ProjectConfig{Toolset: ts, PlatformVersion: "10.0"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("toolset %q: %v", ts, err)
		}
	}
	for _, ts := range []string{"", "142", "vx", "v14"} {
		cfg := ProjectConfig{Toolset: ts, PlatformVersion: "10.0"}
		if err := cfg.Validate(); err == nil {
			t.Errorf("toolset %q should fail", ts)
		}
	}
}

func TestProjectConfig_PlatformVersionRequired(t *testing.T) {
	cfg := ProjectConfig{Toolset: "v142"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty platform version should fail")
	}
}

func TestWatchConfig_Debounce(t *testing.T) {
	cfg := WatchConfig{Debounce: time.Millisecond}
	if err := cfg.Validate(); err == nil {
		t.Error("1ms debounce should fail")
	}
	cfg.Debounce = time.Second
	if err := cfg.Validate(); err != nil {
		t.Errorf("1s debounce: %v", err)
	}
}

func TestFullConfig_ProjectValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Project.Toolset = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch project error")
	}
}
