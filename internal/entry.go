// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/slngen/internal/apperr"
	"github.com/starford/slngen/internal/generator"
	"github.com/starford/slngen/internal/prompt"
	"github.com/starford/slngen/internal/render"
	"github.com/starford/slngen/internal/walker"
	"github.com/starford/slngen/internal/watch"
)

// Run generates the descriptors for the configured request and, in watch
// mode, keeps them up to date until ctx is cancelled or a signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.request == nil {
		return fmt.Errorf("request is required: %w", apperr.ErrInvalidArguments)
	}
	if app.watch && !app.yes {
		return fmt.Errorf("watch mode requires accepting all files: %w", apperr.ErrInvalidArguments)
	}

	cfg := app.config
	req := *app.request
	req.Capitalize = req.Capitalize || cfg.Project.Capitalize

	// Prompts own stdout, so logs go to stderr.
	logger := cfg.App.NewLogger(app.stderr)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.String("toolset", cfg.Project.Toolset),
		slog.String("platform_version", cfg.Project.PlatformVersion))

	var decide walker.Decider = prompt.NewTerminal(app.stdin, app.stdout)
	if app.yes {
		decide = prompt.AcceptAll{}
	}

	gen := generator.New(render.New(render.Options{
		Toolset:         cfg.Project.Toolset,
		PlatformVersion: cfg.Project.PlatformVersion,
	}), decide, logger)

	rep, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	logger.Info("Solution generated",
		slog.String("solution", rep.Solution.Name),
		slog.String("project", rep.Solution.Project.Name),
		slog.Int("files", len(rep.Solution.Project.Files)),
		slog.String("origin", rep.Origin.String()))

	if !app.watch {
		return nil
	}
	return runWatch(ctx, gen, req, cfg, logger)
}

// runWatch regenerates in update mode on every relevant source change.
func runWatch(ctx context.Context, gen *generator.Generator, req generator.Request, cfg *Config, logger *slog.Logger) error {
	// Later runs must keep the identifiers of the first one.
	req.Overwrite = false

	root, err := filepath.Abs(req.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	var ignore []string
	if out, err := filepath.Abs(req.OutputDir); err == nil && out != root {
		ignore = append(ignore, out)
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return watch.Watch(watchCtx, watch.Options{
			Root:      root,
			Recursive: req.Recursive,
			Debounce:  cfg.Watch.Debounce,
			Ignore:    ignore,
		}, logger, func(ctx context.Context) error {
			_, err := gen.Generate(ctx, req)
			return err
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watch stopped")
	return nil
}
