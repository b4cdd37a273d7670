package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"stage-merge/core/config"
	"stage-merge/core/database"
	"stage-merge/core/logger"
	"stage-merge/core/merge"
	"stage-merge/core/staging"
	"stage-merge/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loadFile      string
	loadObject    string
	loadTable     string
	loadColumns   string
	loadMap       string
	loadKeys      string
	loadMode      string
	loadUpdated   string
	loadDelimiter string
	loadNullToken string
	loadHeader    bool
)

// loadCmd runs the full pipeline: create staging, bulk load, reconcile, drop.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load a delimited file and merge it into a target table",
	Long: `Load a delimited file into an ephemeral staging table and reconcile it
against the target table under the chosen merge mode.

Modes:
  append   insert rows whose key is not present yet (default)
  update   append, then update rows whose values changed
  replace  clear the target, then insert every staged row

Examples:
  # Append new products from a local CSV
  stage-merge load --file products.csv --table products --columns id,name,price --key id

  # Update, comparing only the last-modified column
  stage-merge load --file products.csv --table products \
    --columns id,name,price,updated_at --key id --mode update --updated updated_at

  # Replace from an object in the configured bucket, tab-delimited, no header
  stage-merge load --object exports/products.tsv --table products \
    --columns id,name,price --key id --mode replace --delimiter "\t" --header=false

  # Map source labels onto differently named target columns
  stage-merge load --file dump.csv --table products \
    --columns code,label --map code=id,label=name --key code`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "Local delimited input file")
	loadCmd.Flags().StringVar(&loadObject, "object", "", "Object name in the configured storage bucket")
	loadCmd.Flags().StringVar(&loadTable, "table", "", "Target table (required)")
	loadCmd.Flags().StringVar(&loadColumns, "columns", "", "Comma-separated source columns in file order (required)")
	loadCmd.Flags().StringVar(&loadMap, "map", "", "Source-to-target renames as src=dst pairs; unmapped columns keep their name")
	loadCmd.Flags().StringVar(&loadKeys, "key", "", "Comma-separated key columns identifying a row (required)")
	loadCmd.Flags().StringVar(&loadMode, "mode", "append", "Merge mode: append, update or replace")
	loadCmd.Flags().StringVar(&loadUpdated, "updated", "", "Target column carrying the last-modified timestamp")
	loadCmd.Flags().StringVar(&loadDelimiter, "delimiter", ",", "Field delimiter")
	loadCmd.Flags().StringVar(&loadNullToken, "null", "", "Cell value loaded as SQL NULL")
	loadCmd.Flags().BoolVar(&loadHeader, "header", true, "Input starts with a header line")

	_ = loadCmd.MarkFlagRequired("table")
	_ = loadCmd.MarkFlagRequired("columns")
	_ = loadCmd.MarkFlagRequired("key")

	RootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l = logger.WithRunID(l)

	spec, err := buildSpec()
	if err != nil {
		return err
	}

	opts, err := loaderOptions()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	input, err := openInput(ctx, cfg)
	if err != nil {
		return err
	}
	defer input.Close()

	set := staging.NewSet(splitList(loadColumns))
	if err := set.Create(ctx, db); err != nil {
		return err
	}
	// The staging set lives exactly one run, whatever the outcome
	defer func() {
		if dropErr := set.Drop(context.Background(), db); dropErr != nil {
			l.Warn("failed to drop staging table", zap.String("table", set.Table), zap.Error(dropErr))
		}
	}()

	l.Info("load started",
		zap.String("target", loadTable),
		zap.String("staging", set.Table),
		zap.String("mode", loadMode),
	)

	loaded, err := staging.NewLoader(opts).Load(ctx, db, set, input)
	if err != nil {
		return fmt.Errorf("bulk load failed: %w", err)
	}
	l.Info("staging loaded", zap.Int("rows", loaded))

	spec.Staging = set.Table
	result, err := merge.NewEngine(db, l).Reconcile(ctx, spec)
	if err != nil {
		return err
	}

	l.Info("load finished",
		zap.Int64("inserted", result.Inserted),
		zap.Int64("updated", result.Updated),
		zap.Int64("total", result.Total()),
	)
	return nil
}

// buildSpec assembles the merge spec from the command flags. The staging
// table name is filled in once the set exists.
func buildSpec() (merge.Spec, error) {
	mode, err := merge.ParseMode(loadMode)
	if err != nil {
		return merge.Spec{}, err
	}

	mapping, err := parseMapping(splitList(loadColumns), loadMap)
	if err != nil {
		return merge.Spec{}, err
	}

	return merge.Spec{
		Target:        loadTable,
		Mapping:       mapping,
		Keys:          splitList(loadKeys),
		Mode:          mode,
		UpdatedColumn: loadUpdated,
	}, nil
}

// parseMapping maps every source column onto a target column: renamed via
// the src=dst pairs when given, same-named otherwise.
func parseMapping(columns []string, renames string) (merge.ColumnMapping, error) {
	targets := make(map[string]string)
	if renames != "" {
		for _, pair := range splitList(renames) {
			src, dst, ok := strings.Cut(pair, "=")
			if !ok || src == "" || dst == "" {
				return nil, fmt.Errorf("invalid --map entry %q, expected src=dst", pair)
			}
			targets[src] = dst
		}
	}

	mapping := make(merge.ColumnMapping, 0, len(columns))
	for _, col := range columns {
		target := col
		if renamed, ok := targets[col]; ok {
			target = renamed
			delete(targets, col)
		}
		mapping = append(mapping, merge.ColumnPair{Source: col, Target: target})
	}
	for src := range targets {
		return nil, fmt.Errorf("--map source %q is not a staged column", src)
	}
	return mapping, nil
}

func loaderOptions() (staging.Options, error) {
	opts := staging.DefaultOptions()
	delim := loadDelimiter
	if delim == `\t` {
		delim = "\t"
	}
	runes := []rune(delim)
	if len(runes) != 1 {
		return staging.Options{}, fmt.Errorf("delimiter must be a single character, got %q", loadDelimiter)
	}
	opts.Comma = runes[0]
	opts.NullToken = loadNullToken
	opts.Header = loadHeader
	return opts, nil
}

// openInput resolves the delimited input: a local file, or an object in
// the configured bucket.
func openInput(ctx context.Context, cfg *config.Config) (io.ReadCloser, error) {
	switch {
	case loadFile != "" && loadObject != "":
		return nil, fmt.Errorf("--file and --object are mutually exclusive")
	case loadFile != "":
		return staging.OpenLocal(loadFile)
	case loadObject != "":
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		return staging.OpenObject(ctx, client, cfg.Storage.Bucket, loadObject)
	default:
		return nil, fmt.Errorf("either --file or --object is required")
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
