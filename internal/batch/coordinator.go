// Package batch drives the classifier across many records, either from the
// store (in-process classification) or from a CSV file (row filtering,
// batching, and dispatch payloads for external agents).
package batch

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brady-data/crimegun-cli/internal/classify"
	"github.com/brady-data/crimegun-cli/internal/store"
)

// MaxBatchSize is the hard cap on records per batch. It reflects the
// parallel-dispatch limit of the downstream agent pool; requested sizes
// above it are clamped, not rejected.
const MaxBatchSize = 20

// Config tunes a Coordinator.
type Config struct {
	BatchSize   int  // records per batch; clamped to [1, MaxBatchSize]
	Concurrency int  // concurrent classifications per batch; <=1 means serial
	DryRun      bool // classify but do not persist
}

// ClampBatchSize applies the hard cap and the >=1 floor.
func ClampBatchSize(n int) int {
	if n <= 0 {
		return MaxBatchSize
	}
	if n > MaxBatchSize {
		return MaxBatchSize
	}
	return n
}

// BatchResult reports one batch.
type BatchResult struct {
	Fetched   int
	Processed int
	Failed    int
}

// Summary aggregates a whole run.
type Summary struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Batches   int    `json:"batches" yaml:"batches"`
	Total     int    `json:"total" yaml:"total"`
	Processed int    `json:"processed" yaml:"processed"`
	Skipped   int    `json:"skipped" yaml:"skipped"`
	Failed    int    `json:"failed" yaml:"failed"`
}

// SuccessRate is processed over attempted, in percent. The max(.., 1)
// denominator keeps an empty run at 0 instead of dividing by zero.
func (s Summary) SuccessRate() float64 {
	attempted := s.Processed + s.Failed
	if attempted < 1 {
		attempted = 1
	}
	return float64(s.Processed) / float64(attempted) * 100
}

// Coordinator pulls unclassified records from the store and runs the
// resolver over them batch by batch.
type Coordinator struct {
	store    store.Store
	resolver *classify.Resolver
	cfg      Config
}

// NewCoordinator builds a Coordinator. The configured batch size is clamped
// up front so every fetch respects the cap.
func NewCoordinator(st store.Store, r *classify.Resolver, cfg Config) *Coordinator {
	cfg.BatchSize = ClampBatchSize(cfg.BatchSize)
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Coordinator{store: st, resolver: r, cfg: cfg}
}

// ProcessBatch fetches one batch of unclassified records and classifies
// them. A failed persist counts against the batch but never aborts it:
// records are independent and the run is idempotent, so a re-run picks up
// whatever failed.
func (c *Coordinator) ProcessBatch(ctx context.Context) (*BatchResult, error) {
	records, err := c.store.FetchUnclassified(ctx, c.cfg.BatchSize)
	if err != nil {
		return nil, eris.Wrap(err, "batch: fetch unclassified")
	}

	res := &BatchResult{Fetched: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for _, rec := range records {
		g.Go(func() error {
			result := c.resolver.Classify(rec)
			if c.cfg.DryRun {
				processed.Add(1)
				return nil
			}

			ok, err := c.store.Persist(gctx, rec.ID(), &result)
			if err != nil {
				zap.L().Warn("persist failed",
					zap.Int64("record_id", rec.ID()),
					zap.Error(err))
				failed.Add(1)
				return nil // don't abort batch on individual failure
			}
			if !ok {
				zap.L().Warn("persist matched no row", zap.Int64("record_id", rec.ID()))
				failed.Add(1)
				return nil
			}
			processed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: process")
	}

	res.Processed = int(processed.Load())
	res.Failed = int(failed.Load())
	return res, nil
}

// ProcessAll repeatedly pulls and processes batches until a fetch returns
// zero records. Termination rides on the last fetched batch size, not on
// re-querying counts, so a stale counter cannot loop it forever.
func (c *Coordinator) ProcessAll(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.New().String()}
	log := zap.L().With(zap.String("run_id", summary.RunID))

	for {
		br, err := c.ProcessBatch(ctx)
		if err != nil {
			return summary, err
		}
		if br.Fetched == 0 {
			break
		}

		summary.Batches++
		summary.Total += br.Fetched
		summary.Processed += br.Processed
		summary.Failed += br.Failed
		log.Info("batch complete",
			zap.Int("batch", summary.Batches),
			zap.Int("fetched", br.Fetched),
			zap.Int("processed", br.Processed),
			zap.Int("failed", br.Failed))

		// A dry run never persists, so every record stays unclassified
		// and the fetch would return the same batch forever.
		if c.cfg.DryRun {
			break
		}
		// A batch that persisted nothing would refetch the same records.
		if br.Processed == 0 {
			break
		}
	}
	return summary, nil
}
