package internal

import (
	"io"

	"github.com/starford/slngen/internal/generator"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	request *generator.Request
	yes     bool
	watch   bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithRequest sets the generation request.
func WithRequest(req generator.Request) Option {
	return func(a *application) {
		a.request = &req
	}
}

// WithAcceptAll skips every inclusion question.
func WithAcceptAll(yes bool) Option {
	return func(a *application) {
		a.yes = yes
	}
}

// WithWatch keeps regenerating after the first run until the context ends.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}

// WithStreams sets the prompt input, prompt output and log output.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdin = stdin
		a.stdout = stdout
		a.stderr = stderr
	}
}
