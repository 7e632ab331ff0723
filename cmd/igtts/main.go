// Command igtts is the Gemini text-to-speech toolkit: single synthesis
// calls, batch plan execution with cancellation and delay pacing, and
// voice-catalog and configuration management.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/xb0or/Gemini-TTS/internal/config"
)

const bootstrapLogFile = "igtts-bootstrap.log"

// app carries the shared state every subcommand needs: the configuration
// store, a snapshot of the record taken at startup, and the logger routed to
// the configured log file.
type app struct {
	configPath string
	store      *config.Store
	cfg        config.Config
	log        *logger.Logger
}

// setup loads the configuration and swaps the bootstrap logger for one
// writing to the configured log file. It is safe to call before any command
// body runs.
func (a *app) setup() error {
	bootstrapLog, err := logger.New(os.TempDir(), bootstrapLogFile)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	a.store = config.NewStore(a.configPath, bootstrapLog)
	a.cfg = a.store.Load()

	logDir, logFile := filepath.Split(a.cfg.LogFile)
	if logDir == "" {
		logDir = "."
	}

	runLog, err := logger.New(logDir, logFile)
	if err != nil {
		bootstrapLog.Warn("Unable to open log file %s, using bootstrap log: %v", a.cfg.LogFile, err)

		runLog = bootstrapLog
	}

	a.log = runLog
	a.store.SetLogger(runLog)

	if a.cfg.DebugEnabled {
		runLog.Info("Debug logging enabled, configuration loaded from %s", a.store.Path())
	}

	return nil
}

func (a *app) close() {
	if a.log == nil {
		return
	}

	err := a.log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error closing log: %v\n", err)
	}
}

func newRootCmd() *cobra.Command {
	application := &app{}

	rootCmd := &cobra.Command{
		Use:          "igtts",
		Short:        "Gemini text-to-speech toolkit",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return application.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			application.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&application.configPath,
		"config",
		config.DefaultFilename,
		"path to the configuration file",
	)

	rootCmd.AddCommand(
		newSpeakCmd(application),
		newBatchCmd(application),
		newVoicesCmd(application),
		newConfigCmd(application),
	)

	return rootCmd
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
