// SPDX-License-Identifier: MIT

// Command ladder fits the Cepheid/TRGB/SN distance ladder.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/katalvlaran/distladder/config"
	"github.com/katalvlaran/distladder/internal/logging"
	"github.com/spf13/cobra"
)

// app holds the persistent flags and what they resolve to.
type app struct {
	configPath string
	envFile    string
	workDir    string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ladder",
		Short:         "Distance-ladder fit with K-corrections and kappa clipping",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file (defaults apply when empty)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with LADDER_* overrides, skipped when missing")
	pf.StringVar(&a.workDir, "work-dir", "", "output directory, overrides paths.work_dir")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error, overrides logging.level")

	root.AddCommand(newFitCmd(a), newSweepCmd(a), newSynthCmd(a))
	return root
}

// setup loads the environment file and configuration, applies flag
// overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s: %w", a.envFile, err)
		}
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("work-dir") {
		cfg.Paths.WorkDir = a.workDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg, a.logger = cfg, logger
	return nil
}
