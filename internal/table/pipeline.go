// Package table implements the CSV-W table pipeline: resolving a table's
// CSV source, streaming records through the row validator with bounded
// parallelism, and running the hash-then-verify primary-key collision pass
// (SPEC_FULL.md §4.4).
package table

import (
	"context"
	"errors"
	"fmt"
	"os"

	"csvw/internal/fetch"
	"csvw/internal/row"
	"csvw/internal/schema"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config configures one table pipeline run.
type Config struct {
	DegreeOfParallelism int
	RowGrouping         int
	Fetcher             fetch.Fetcher
	Logger              *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.DegreeOfParallelism <= 0 {
		c.DegreeOfParallelism = 4
	}
	if c.RowGrouping <= 0 {
		c.RowGrouping = 500
	}
	if c.Fetcher == nil {
		c.Fetcher = fetch.NewDefaultFetcher()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Pipeline validates one Table against its schema.
type Pipeline struct {
	table *schema.Table
	group *schema.TableGroup
	cfg   Config
}

// New builds a Pipeline for table within group.
func New(table *schema.Table, group *schema.TableGroup, cfg Config) *Pipeline {
	return &Pipeline{table: table, group: group, cfg: cfg.withDefaults()}
}

// Run executes both passes and returns the table's accumulated state. A
// fatal I/O error on the CSV source yields a single file_not_found /
// csv_cannot_be_downloaded error and an Accumulator with zero rows
// processed, per §5's cancellation rule.
func (p *Pipeline) Run(ctx context.Context) (*Accumulator, error) {
	acc := NewAccumulator(p.table)

	if p.table.Schema == nil {
		return acc, fmt.Errorf("table %q has no schema", p.table.URL)
	}

	validator, err := row.New(p.table.Schema)
	if err != nil {
		acc.addError(schema.Entry{Type: schema.ErrMetadata, Category: schema.CategoryMetadata, Content: err.Error()})
		return acc, nil
	}

	dialect := p.table.EffectiveDialect(p.group)

	localPath, ioErr := p.cfg.Fetcher.Fetch(ctx, p.table.URL)
	if ioErr != nil {
		acc.addError(ioErrorEntry(p.table.URL, ioErr))
		return acc, nil
	}

	if err := p.runPass1(ctx, validator, dialect, localPath, acc); err != nil {
		acc.addError(ioErrorEntry(p.table.URL, err))
		return acc, nil
	}

	colliding := acc.CollidingRows()
	if len(colliding) > 0 {
		localPath2, ioErr := p.cfg.Fetcher.Fetch(ctx, p.table.URL)
		if ioErr != nil {
			acc.addError(ioErrorEntry(p.table.URL, ioErr))
			return acc, nil
		}
		if localPath2 != localPath {
			// The byte-source collaborator is contracted to cache so both
			// passes read the same bytes (§5); a differing second resolution
			// means pass 2 may not be re-verifying the data pass 1 scanned.
			acc.addWarning(schema.Entry{
				Type:     schema.WarnSourceURLMismatch,
				Category: schema.CategoryStructure,
				Content:  fmt.Sprintf("%s: re-fetch resolved to %q, first fetch resolved to %q", p.table.URL, localPath2, localPath),
				CSVPath:  p.table.URL,
			})
		}
		if err := p.runPass2(validator, dialect, localPath2, colliding, acc); err != nil {
			acc.addError(ioErrorEntry(p.table.URL, err))
			return acc, nil
		}
	}

	return acc, nil
}

func ioErrorEntry(url string, err error) schema.Entry {
	kind := schema.ErrCSVCannotBeDownloaded
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		kind = fe.Kind
	} else if os.IsNotExist(err) {
		kind = schema.ErrFileNotFound
	}
	return schema.Entry{
		Type:     kind,
		Category: schema.CategoryStructure,
		Content:  fmt.Sprintf("%s: %v", url, err),
		CSVPath:  url,
	}
}

// runPass1 streams every record, dispatching batches of cfg.RowGrouping to
// up to cfg.DegreeOfParallelism concurrent workers (pure row validation),
// then folds each batch's results into acc in batch order. Batches commute
// under the set/append operations used, so batch-order folding is
// equivalent to the spec's "arrival order" fold while being deterministic
// and simple to test (see DESIGN.md).
func (p *Pipeline) runPass1(ctx context.Context, validator *row.Validator, dialect schema.Dialect, localPath string, acc *Accumulator) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := newCSVReader(f, dialect)

	for i := 0; i < dialect.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			break
		}
	}

	recordNumber := 0
	headerSeen := false
	type batchItem struct {
		recordNumber int
		record       []string
	}
	var batches [][]batchItem
	var current []batchItem

	flush := func() {
		if len(current) > 0 {
			batches = append(batches, current)
			current = nil
		}
	}

	for {
		record, err := cr.Read()
		if err != nil {
			break
		}
		recordNumber++
		record = applyTrim(record, dialect.Trim)

		if isBlankRecord(record) {
			if dialect.SkipBlankRows {
				continue
			}
			acc.addError(schema.Entry{Type: schema.ErrBlankRows, Category: schema.CategoryStructure, Row: recordNumber})
			continue
		}

		if dialect.Header && !headerSeen {
			headerSeen = true
			headerErrs, warnings := validator.ValidateHeader(record)
			if len(record) > len(p.table.Schema.Columns) {
				acc.addError(schema.Entry{Type: schema.ErrMalformedHeader, Category: schema.CategoryStructure, Row: recordNumber})
			}
			acc.Report.Errors = append(acc.Report.Errors, headerErrs...)
			acc.Report.Warnings = append(acc.Report.Warnings, warnings...)
			continue
		}

		if len(record) < len(p.table.Schema.Columns) {
			acc.addError(schema.Entry{Type: schema.ErrRaggedRows, Category: schema.CategoryStructure, Row: recordNumber})
		} else if len(record) > len(p.table.Schema.Columns) {
			acc.addError(schema.Entry{Type: schema.ErrRaggedRows, Category: schema.CategoryStructure, Row: recordNumber})
		}

		current = append(current, batchItem{recordNumber: recordNumber, record: record})
		if len(current) >= p.cfg.RowGrouping {
			flush()
		}
	}
	flush()

	refs := p.table.ReferencedKeys
	results := make([][]row.Outcome, len(batches))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.DegreeOfParallelism)
	for bi, batch := range batches {
		bi, batch := bi, batch
		g.Go(func() error {
			out := make([]row.Outcome, len(batch))
			for i, item := range batch {
				out[i] = validator.Validate(item.recordNumber, item.record, refs)
			}
			results[bi] = out
			return nil
		})
	}
	_ = g.Wait()

	for _, batchResults := range results {
		for _, outcome := range batchResults {
			p.fold(acc, outcome)
		}
	}
	acc.RowsProcessed = recordNumber
	return nil
}

// fold applies one row's Outcome to the table accumulator: errors appended,
// FK sets updated, and the primary key's hash bucketed for pass 2.
func (p *Pipeline) fold(acc *Accumulator, outcome row.Outcome) {
	acc.Report.Errors = append(acc.Report.Errors, outcome.Errors...)

	for _, child := range outcome.ChildForeignKeys {
		acc.ChildKeySets[child.Definition].Add(child.Key, outcome.RecordNumber)
	}

	for _, parent := range outcome.ParentForeignKeyReferences {
		acc.ParentKeySets[parent.Ref].AddOrMarkDuplicate(parent.Key, outcome.RecordNumber)
	}

	if len(p.table.Schema.PrimaryKey) > 0 {
		acc.RecordPrimaryKeyHash(outcome.PrimaryKey, outcome.RecordNumber)
	}
}

// runPass2 re-reads the CSV and re-validates only the rows whose primary
// key hash collided with another row in pass 1, inserting their actual
// KeyValues into an in-memory set and emitting duplicate_key on the second
// true match (§4.4, §9: hash-then-verify bounds memory while eliminating
// false positives from hash collisions).
func (p *Pipeline) runPass2(validator *row.Validator, dialect schema.Dialect, localPath string, colliding map[int]bool, acc *Accumulator) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := newCSVReader(f, dialect)
	for i := 0; i < dialect.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			break
		}
	}

	seen := schema.NewKeyValueSet()
	recordNumber := 0
	headerSeen := false

	for {
		record, err := cr.Read()
		if err != nil {
			break
		}
		recordNumber++
		record = applyTrim(record, dialect.Trim)

		if isBlankRecord(record) {
			if dialect.SkipBlankRows {
				continue
			}
			continue
		}
		if dialect.Header && !headerSeen {
			headerSeen = true
			continue
		}
		if !colliding[recordNumber] {
			continue
		}

		outcome := validator.Validate(recordNumber, record, nil)
		if existing, ok := seen.Contains(outcome.PrimaryKey); ok {
			_ = existing
			acc.addError(schema.Entry{
				Type:     schema.ErrDuplicateKey,
				Category: schema.CategorySchemaLC,
				Row:      recordNumber,
				Content:  fmt.Sprintf("key already present - %s", outcome.PrimaryKey.String()),
			})
			continue
		}
		seen.Add(outcome.PrimaryKey, recordNumber)
	}
	return nil
}
