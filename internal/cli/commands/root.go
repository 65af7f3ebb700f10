package commands

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/capoala/mvvm/internal/cli/ui"
	"github.com/capoala/mvvm/internal/config"
	"github.com/capoala/mvvm/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// Persistent flags shared by every subcommand.
const (
	flagConfigDir = "config-dir"
	flagLogLevel  = "log-level"
	flagNoColor   = "no-color"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mvvm",
		Short: "Reactive property-change propagation playground",
		Long: color.CyanString(`mvvm - Reactive view model playground

mvvm drives view models whose properties declare what they cascade from,
which properties they force, and which commands they requery. Setting one
property raises everything that depends on it, exactly once per change.

Features:
  • Declarative cascade, notify and requery tables
  • Back/forward navigation between view models
  • Websocket and REST binding bridge
  • Optional Redis change feed`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfigDir, ".", "Directory containing mvvm.yml")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool(flagNoColor, false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewDemoCommand())
	rootCmd.AddCommand(NewGraphCommand())
	rootCmd.AddCommand(NewPlaygroundCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the mvvm version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			if noColor(cmd) {
				titleColor.DisableColor()
				valueColor.DisableColor()
			}
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "mvvm version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, err)
		return err
	}
	return nil
}

// reportError prints err the way the failing command would want it shown.
func reportError(rootCmd *cobra.Command, err error) {
	w := rootCmd.ErrOrStderr()
	plain := noColor(rootCmd)

	var cfgErr *configError
	var shown *reportedError
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprint(w, ui.ConfigError(cfgErr.Error(), plain))
	case errors.As(err, &shown):
		fmt.Fprint(w, shown.message)
	default:
		errorColor := color.New(color.FgRed, color.Bold)
		if plain {
			errorColor.DisableColor()
		}
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}

// configError marks a failure to load or apply configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// reportedError carries a fully formatted message for the user.
type reportedError struct {
	message string
	err     error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// environment is what a command resolves from flags and configuration.
type environment struct {
	config      *config.Config
	configDir   string
	logger      *zap.Logger
	level       zap.AtomicLevel
	levelPinned bool // --log-level overrides the file
	noColor     bool
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	flags := cmd.Root().PersistentFlags()
	dir, _ := flags.GetString(flagConfigDir)
	level, _ := flags.GetString(flagLogLevel)
	if dir == "" {
		dir = "."
	}

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		return nil, &configError{err: err}
	}
	if level != "" {
		if _, err := zapcore.ParseLevel(level); err != nil {
			return nil, &configError{err: fmt.Errorf("invalid --%s: %w", flagLogLevel, err)}
		}
		cfg.Log.Level = level
	}

	logger, atomic, err := logging.NewLeveled(cfg.Log)
	if err != nil {
		return nil, &configError{err: err}
	}

	return &environment{
		config:      cfg,
		configDir:   dir,
		logger:      logger,
		level:       atomic,
		levelPinned: level != "",
		noColor:     noColor(cmd),
	}, nil
}

// watchLogLevel follows log.level edits in the configuration file until the
// returned stop function is called. Other sections only apply on restart.
func (e *environment) watchLogLevel() (stop func()) {
	if e.levelPinned {
		return func() {}
	}
	w, err := config.NewWatcher(e.configDir, func(cfg *config.Config) {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			return
		}
		if level != e.level.Level() {
			e.level.SetLevel(level)
			e.logger.Info("log level changed", zap.String("level", level.String()))
		}
	}, func(err error) {
		e.logger.Warn("ignoring configuration change", zap.Error(err))
	})
	if err != nil {
		e.logger.Warn("configuration changes will not be picked up", zap.Error(err))
		return func() {}
	}
	return func() { _ = w.Stop() }
}

// close flushes the logger.
func (e *environment) close() {
	_ = e.logger.Sync()
}

// noColor reads the root's --no-color, so it works from any subcommand.
func noColor(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool(flagNoColor)
	return v || color.NoColor
}
