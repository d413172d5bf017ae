package internal

import (
	"io"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Project ProjectConfig     `yaml:"project"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Project.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.Required, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// NewLogger builds the logger described by the configuration.
func (c *ApplicationConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

var toolsetRe = regexp.MustCompile(`^v\d{3}(_xp)?$`)

// ProjectConfig holds settings rendered into the project descriptor.
type ProjectConfig struct {
	Toolset         string `yaml:"toolset"`
	PlatformVersion string `yaml:"platform_version"`
	// Capitalize upper-cases the first letter of fresh project names.
	Capitalize bool `yaml:"capitalize"`
}

// Validate validates the project configuration.
func (c *ProjectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Toolset, validation.Required, validation.Match(toolsetRe)),
		validation.Field(&c.PlatformVersion, validation.Required),
	)
}

// WatchConfig holds watch-mode configuration.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Project: ProjectConfig{
			Toolset:         "v142",
			PlatformVersion: "10.0",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}
