package staging

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"
)

// Options controls how the delimited input is parsed.
type Options struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
	// NullToken is the literal cell value loaded as SQL NULL. The default
	// "" treats empty cells as NULL, matching CSV bulk-copy convention.
	NullToken string
	// Header indicates the first record is a header line to skip.
	Header bool
	// BatchSize is the number of rows per insert statement. Defaults to 500.
	BatchSize int
}

// DefaultOptions returns the documented defaults: comma-delimited, empty
// cells as NULL, header line present.
func DefaultOptions() Options {
	return Options{
		Comma:     ',',
		NullToken: "",
		Header:    true,
		BatchSize: 500,
	}
}

func (o Options) withDefaults() Options {
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 500
	}
	return o
}

// Loader bulk-loads a delimited stream into a staging set using batched
// set-based inserts. It owns parsing format, delimiter, null token and
// header handling; everything lands as text.
type Loader struct {
	opts Options
}

// NewLoader returns a loader with the given options.
func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts.withDefaults()}
}

// Load reads the whole stream into the staging table and returns the
// number of rows loaded. Every record must have exactly one field per
// staging column.
func (l *Loader) Load(ctx context.Context, db *gorm.DB, set *Set, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.opts.Comma
	reader.FieldsPerRecord = len(set.Columns)

	if l.opts.Header {
		if _, err := reader.Read(); err == io.EOF {
			return 0, nil
		} else if err != nil {
			return 0, fmt.Errorf("failed to read header: %w", err)
		}
	}

	var (
		total int
		batch [][]any
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.insertBatch(ctx, db, set, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("failed to parse input: %w", err)
		}

		row := make([]any, len(record))
		for i, cell := range record {
			if cell == l.opts.NullToken {
				row[i] = nil
			} else {
				row[i] = cell
			}
		}
		batch = append(batch, row)

		if len(batch) >= l.opts.BatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	return total, nil
}

// insertBatch issues one parameterized multi-row insert.
func (l *Loader) insertBatch(ctx context.Context, db *gorm.DB, set *Set, batch [][]any) error {
	cols := make([]string, len(set.Columns))
	for i, col := range set.Columns {
		cols[i] = quoteIdent(db, col)
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(set.Columns)), ", ") + ")"
	rows := make([]string, len(batch))
	args := make([]any, 0, len(batch)*len(set.Columns))
	for i, row := range batch {
		rows[i] = placeholder
		args = append(args, row...)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdent(db, set.Table), strings.Join(cols, ", "), strings.Join(rows, ", "))

	if err := db.WithContext(ctx).Exec(stmt, args...).Error; err != nil {
		return fmt.Errorf("failed to load batch into %s: %w", set.Table, err)
	}
	return nil
}
