// Package engine is the top-level orchestrator: it turns a CSV-W metadata
// document into a validated schema.TableGroup, runs one table.Pipeline per
// table concurrently, and folds their results through internal/integrity to
// produce the final schema.WarningsAndErrors (SPEC_FULL.md §2, §5).
package engine

import (
	"context"

	"csvw/internal/fetch"
	"csvw/internal/integrity"
	"csvw/internal/metadata"
	"csvw/internal/schema"
	"csvw/internal/table"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config configures one validation run. Zero values fall back to
// table.Config's defaults.
type Config struct {
	DegreeOfParallelism int
	RowGrouping         int
	Fetcher             fetch.Fetcher
	Logger              *zap.Logger
}

// Run validates the CSV-W document described by metadataJSON, fetching and
// checking every table it declares, and returns the combined
// warnings/errors. A non-nil error is returned only for a document-level
// failure (malformed metadata JSON); per-table failures are folded into the
// returned WarningsAndErrors as metadata entries instead (§7).
func Run(ctx context.Context, metadataJSON []byte, cfg Config) (schema.WarningsAndErrors, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	group, metadataErrs, err := metadata.BuildTableGroup(metadataJSON)
	if err != nil {
		return schema.WarningsAndErrors{}, err
	}

	var out schema.WarningsAndErrors
	out.Errors = append(out.Errors, metadataErrs...)

	tableCfg := table.Config{
		DegreeOfParallelism: cfg.DegreeOfParallelism,
		RowGrouping:         cfg.RowGrouping,
		Fetcher:             cfg.Fetcher,
		Logger:              logger,
	}

	results := make([]*integrity.TableResult, len(group.Tables))
	accs := make([]*table.Accumulator, len(group.Tables))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range group.Tables {
		i, t := i, t
		if t.Schema == nil {
			continue // metadata error already recorded above
		}
		g.Go(func() error {
			logger.Info("validating table", zap.String("url", t.URL))
			pipeline := table.New(t, group, tableCfg)
			acc, err := pipeline.Run(gctx)
			if err != nil {
				return err
			}
			accs[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	for i, t := range group.Tables {
		acc := accs[i]
		if acc == nil {
			continue
		}
		out.Merge(acc.Report)
		results[i] = &integrity.TableResult{
			Table:         t,
			ChildKeySets:  acc.ChildKeySets,
			ParentKeySets: acc.ParentKeySets,
		}
	}

	nonNil := make([]*integrity.TableResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			nonNil = append(nonNil, r)
		}
	}
	out.Merge(integrity.Check(nonNil))

	return out, nil
}
