package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mstepanov/execguard/internal/config"
	"github.com/mstepanov/execguard/internal/gate"
	"github.com/mstepanov/execguard/internal/sandbox"
	"github.com/mstepanov/execguard/internal/validator"
)

var (
	// Global flags
	dryRun  bool
	verbose bool
	workDir string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "execguard",
	Short: "Execution safety layer for coding agents",
	Long: `execguard sits between a coding agent and the operating system.

Every command is checked against a denylist and an allowlist before it
runs, executions are bounded by timeout and output limits, and
destructive git operations require an explicit confirmation.

Commands:
  check    Validate a command without running it
  run      Execute an allowed command in the sandbox
  commit   Stage, commit, and optionally push through the confirmation gate
  branch   Create and switch to a branch through the confirmation gate
  key      Manage the stored API credential`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview destructive actions without executing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "C", "", "Working directory for executed commands (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Config home (default: $EXECGUARD_HOME or ~/.execguard)")
}

// app bundles the wired components behind the subcommands.
type app struct {
	cfg       config.Config
	validator *validator.Validator
	sandbox   *sandbox.Sandbox
	gate      *gate.Gate
	logger    *slog.Logger
	workDir   string
}

func newApp() (*app, error) {
	home := homeDir
	if home == "" {
		var err error
		home, err = config.DefaultHome()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(home)
	if err != nil {
		return nil, err
	}
	allowlist, err := validator.LoadAllowlist(home)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	wd := workDir
	if wd == "" {
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}

	logger := newLogger(verbose)
	v := validator.New(allowlist)
	sb := sandbox.New(cfg, v, logger)

	return &app{
		cfg:       cfg,
		validator: v,
		sandbox:   sb,
		gate:      gate.New(sb, wd, dryRun || cfg.DryRun, logger),
		logger:    logger,
		workDir:   wd,
	}, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
