package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/slngen/internal"
	"github.com/starford/slngen/internal/apperr"
	"github.com/starford/slngen/internal/generator"
	pkgconfig "github.com/starford/slngen/pkg/config"
)

const defaultConfigPath = "slngen.yaml"

func run(ctx context.Context, cmd *cli.Command) error {
	req, err := generator.NewRequest(cmd.Args().Slice())
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: %s [options] %s\n", cmd.Name, cmd.ArgsUsage)
		return err
	}
	req.Recursive = cmd.Bool("recursive")
	req.Overwrite = cmd.Bool("overwrite")
	req.CopySources = cmd.Bool("copy-sources")
	req.Capitalize = cmd.Bool("capitalize")

	cfg, err := loadConfig(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithRequest(req),
		internal.WithAcceptAll(cmd.Bool("yes")),
		internal.WithWatch(cmd.Bool("watch")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// loadConfig reads the config file over the defaults. A file named
// explicitly, by flag or environment, must exist.
func loadConfig(path string, explicit bool) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if explicit {
		if err := pkgconfig.Load(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if _, err := pkgconfig.LoadOptional(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "slngen",
		Usage:     "Generate a Visual Studio solution and project from a directory of C/C++ sources",
		ArgsUsage: "SOURCE_DIR [OUTPUT_DIR] [SOLUTION_NAME]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Include every discovered file without asking",
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "Descend into subdirectories",
			},
			&cli.BoolFlag{
				Name:    "overwrite",
				Aliases: []string{"o"},
				Usage:   "Mint new identifiers instead of reusing an existing solution's",
			},
			&cli.BoolFlag{
				Name:  "capitalize",
				Usage: "Capitalize the project name",
			},
			&cli.BoolFlag{
				Name:  "copy-sources",
				Usage: "Copy the selected files into the output directory",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Regenerate whenever the source tree changes (requires --yes)",
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		code := apperr.ExitCode(err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}
