package cmd

import (
	"fmt"
	"os"

	"stage-merge/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "stage-merge",
	Short: "Bulk-load and merge delimited data into database tables",
	Long: `stage-merge folds CSV-scale delimited datasets into live database tables.
It bulk-loads the input into an ephemeral staging table, then reconciles it
against the target under append, update or replace semantics without
re-inserting duplicates or overwriting unrelated data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 timestamps
		// for a CLI tool instead of the production epoch encoding
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
