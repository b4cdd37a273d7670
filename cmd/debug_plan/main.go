// Debug tool: prints the statements a reconciliation would run, without
// executing anything. Useful for eyeballing generated SQL against a real
// schema before trusting a merge mode with production data.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"stage-merge/core/config"
	"stage-merge/core/database"
	"stage-merge/core/merge"
)

func main() {
	table := flag.String("table", "", "target table")
	columns := flag.String("columns", "", "comma-separated source columns")
	keys := flag.String("key", "", "comma-separated key columns")
	mode := flag.String("mode", "append", "merge mode")
	flag.Parse()

	if *table == "" || *columns == "" || *keys == "" {
		log.Fatal("need -table, -columns and -key")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	m, err := merge.ParseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}

	var mapping merge.ColumnMapping
	for _, col := range strings.Split(*columns, ",") {
		col = strings.TrimSpace(col)
		mapping = append(mapping, merge.ColumnPair{Source: col, Target: col})
	}

	types, err := merge.ResolveTypes(db, *table)
	if err != nil {
		log.Fatal(err)
	}

	spec := merge.Spec{
		Target:  *table,
		Staging: "staging_preview",
		Mapping: mapping,
		Keys:    strings.Split(*keys, ","),
		Mode:    m,
	}

	plan, err := merge.BuildPlan(spec, types, db.Dialector.Name())
	if err != nil {
		log.Fatal(err)
	}

	for i, stmt := range plan {
		fmt.Printf("-- %d: %s\n%s;\n\n", i+1, stmt.Kind, stmt.SQL)
	}
}
