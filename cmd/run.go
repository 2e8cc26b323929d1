package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/app"
	"github.com/lennai/lennai/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive study app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	runCmd.Flags().Bool("skip-welcome", false, "Skip the welcome animation")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	setupLogging(logFile, false, cfg.Level(slog.LevelWarn))

	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.gateway == nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", d.gatewayErr)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	}

	skip, _ := cmd.Flags().GetBool("skip-welcome")
	return app.Run(cmd.Context(), app.Options{
		Services:    d.hubServices(),
		SkipWelcome: skip,
	})
}

// openLogFile opens lennai.log in the data directory. The TUI owns the
// terminal, so logs go there instead of stderr.
func openLogFile() (*os.File, error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "lennai.log")
	if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
