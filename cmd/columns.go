package cmd

import (
	"fmt"

	"stage-merge/core/config"
	"stage-merge/core/database"
	"stage-merge/core/merge"

	"github.com/spf13/cobra"
)

// columnsCmd prints the resolved column types for a table, the same view
// the merge engine uses when casting staged values.
var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "Show a table's columns and their resolved type tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumns,
}

func init() {
	RootCmd.AddCommand(columnsCmd)
}

func runColumns(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	table := args[0]
	types, err := merge.ResolveTypes(db, table)
	if err != nil {
		return err
	}

	// Raw driver strings alongside the normalized tag
	columns, err := database.GetTableColumns(db, table)
	if err != nil {
		return err
	}

	for _, col := range columns {
		fmt.Printf("%-32s %-20s %s\n", col.Field, col.Type, types[col.Field])
	}
	return nil
}
