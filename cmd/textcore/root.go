package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath string
	logLevel   string
	color      bool

	cfg config.Config
}

// engineOptions returns the engine options derived from the configuration.
func (a *app) engineOptions(extra ...engine.Option) []engine.Option {
	return append(engine.FromConfig(a.cfg), extra...)
}

// openEngine loads path into a new engine.
func (a *app) openEngine(path string, extra ...engine.Option) (*engine.Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	e, err := engine.NewFromReader(f, a.engineOptions(extra...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "textcore",
		Short: "Inspect text and replay edits through the textcore engine",
		Long: `textcore loads text into the edit engine and reports what the engine sees:
line and byte counts, grapheme clusters, coordinate conversions, and the
result of replaying a scripted sequence of edits with undo and marks.

Configuration is read from --config (TOML or YAML), then from TEXTCORE_*
environment variables, then from flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Trace level (error, info, debug)")

	cmd.AddCommand(newStatsCommand(a))
	cmd.AddCommand(newPosCommand(a))
	cmd.AddCommand(newReplayCommand(a))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// setup loads the configuration and installs tracing.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, os.LookupEnv)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	tracer := gologadapter.New()
	tracer.SetOutput(cmd.ErrOrStderr())
	tracer.SetTraceLevel(tracing.TraceLevelFromString(cfg.Logging.Level))
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace { return tracer }))

	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		a.color = term.IsTerminal(int(f.Fd()))
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of textcore",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "textcore %s (%s)\n", version, commit)
		},
	}
}
