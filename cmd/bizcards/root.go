package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizcards/internal/config"
	"github.com/JonMunkholm/bizcards/internal/core"
	"github.com/JonMunkholm/bizcards/internal/logging"
	"github.com/JonMunkholm/bizcards/internal/render"
	"github.com/JonMunkholm/bizcards/internal/store"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	envFile  string
	logLevel string
	verbose  bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bizcards",
		Short:         "Business card generator",
		Long:          "Converts semicolon-separated or xlsx contact lists into one PDF business card per contact.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before configuration")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newGenerateCmd(a),
		newParseCmd(a),
		newServeCmd(a),
		newLayoutsCmd(a),
	)

	return root
}

// setup loads the environment file, configuration and logging.
func (a *app) setup() error {
	// Overload lets values in the file replace variables already set.
	if err := godotenv.Overload(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", a.envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch {
	case a.verbose:
		cfg.Logging.Level = "debug"
	case a.logLevel != "":
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	a.cfg = cfg
	return nil
}

// serviceDeps are the resources behind a Service that need closing.
type serviceDeps struct {
	closeFn func()
}

func (d serviceDeps) Close() {
	if d.closeFn != nil {
		d.closeFn()
	}
}

// newService builds the pipeline. requireFont makes a missing font fatal;
// otherwise rendering is left disabled. The run store is connected and
// migrated when DATABASE_URL is set.
func (a *app) newService(ctx context.Context, requireFont bool) (*core.Service, serviceDeps, error) {
	opts := core.OptionsFromConfig(a.cfg)
	var deps serviceDeps

	renderer, err := render.NewPDFRenderer(a.cfg.Render.FontFile, render.DefaultExportOptions())
	switch {
	case err == nil:
		opts.Renderer = renderer
	case errors.Is(err, render.ErrNoFont) && !requireFont:
		slog.Warn("RENDER_FONT_FILE is not set, card rendering is disabled")
	default:
		return nil, deps, err
	}

	if a.cfg.Database.Enabled() {
		pool, err := store.Connect(ctx, a.cfg.Database)
		if err != nil {
			return nil, deps, err
		}
		deps.closeFn = pool.Close

		runs := store.New(pool)
		if err := runs.Migrate(ctx); err != nil {
			deps.Close()
			return nil, serviceDeps{}, err
		}
		opts.Runs = runs
		slog.Info("run history enabled")
	}

	svc, err := core.NewService(opts)
	if err != nil {
		deps.Close()
		return nil, serviceDeps{}, err
	}
	return svc, deps, nil
}

// reportError prints err with its user-facing explanation.
func reportError(err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
	if detail := core.Detail(err); detail != "" {
		fmt.Fprintln(os.Stderr, "  at:", detail)
	}
	slog.Debug("command failed", "error", err)
}
