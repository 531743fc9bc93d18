package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/scafiti/gofff/internal/logger"
	"github.com/spf13/cobra"
)

const AppName = "gofff"

// Log is shared by every subcommand for progress/diagnostic messages; it is
// configured from the --log-level persistent flag before RunE runs.
var Log = logger.New(os.Stderr, logger.InfoLevel)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - read-only NTFS forensic inspector",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			Log = logger.New(os.Stderr, logger.ParseLevel(level))

			slogFile, _ := cmd.Flags().GetString("diag-log")
			slog.SetDefault(setupSlog(slogFile))
		},
	}
	rootCmd.PersistentFlags().String("log-level", "INFO", "DEBUG, INFO, WARN, or ERROR")
	rootCmd.PersistentFlags().String("diag-log", "", "write structured parsing diagnostics (malformed/unsupported fields) to this file")

	rootCmd.AddCommand(DefinePartitionsCommand())
	rootCmd.AddCommand(DefineLsCommand())
	rootCmd.AddCommand(DefineCatCommand())
	rootCmd.AddCommand(DefineInspectCommand())
	rootCmd.AddCommand(DefineReportCommand())
	rootCmd.AddCommand(DefineMountCommand())

	return rootCmd.Execute()
}

// setupSlog builds the structured diagnostic logger used by internal/ntfs
// while walking MFT entries. With no --diag-log path, diagnostics are
// discarded; the CLI's own progress messages go through Log instead.
func setupSlog(path string) *slog.Logger {
	var w io.Writer = io.Discard
	if path != "" {
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			w = f
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
