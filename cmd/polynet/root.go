package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/recera/polynet/cmd/polynet/internal/config"
	"github.com/recera/polynet/internal/logging"
)

// app is the state shared by every command, filled in before each runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string

	cfg     *config.Config
	log     *slog.Logger
	cleanup func()
}

func newRootCommand() *cobra.Command {
	a := &app{cleanup: func() {}}

	root := &cobra.Command{
		Use:   "polynet",
		Short: "polynet - rotating complete-graph polygons",
		Long: `polynet draws a regular polygon with every pair of vertices connected.
A random share of the edges is drawn solid and the rest dotted, and the whole
network slowly rotates. Serve it to a browser, run it in the terminal, or
render a single frame to SVG.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to polynet.yaml or polynet.toml")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&a.logFile, "log-file", "", "Also append logs to this file")

	root.AddCommand(newRenderCommand(a))
	root.AddCommand(newServeCommand(a))
	root.AddCommand(newTUICommand(a))
	return root
}

// setup loads the config, applies the global flags over it (CLI takes
// precedence) and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	// the terminal UI owns the screen, so it only logs to a file
	var w io.Writer = cmd.ErrOrStderr()
	if cmd.Name() == "tui" {
		w = nil
	}
	logger, cleanup, err := logging.Setup(w, level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	a.cfg, a.log, a.cleanup = cfg, logger, cleanup
	slog.SetDefault(logger)
	return nil
}
