// Package batch runs the normalization pipeline over many raw records at
// once. The pipeline is pure, so records fan out across workers freely; the
// output slice is indexed by input position, which preserves wire-delivery
// order for the consumer.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tgcanon/internal/normalize"

	"github.com/google/uuid"
	"github.com/gotd/td/tg"
)

// Processor is a bounded worker pool over normalize.Message.
type Processor struct {
	workers int
	log     *slog.Logger
}

// NewProcessor builds a processor with the given worker count.
func NewProcessor(workers int, log *slog.Logger) (*Processor, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", workers)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Processor{workers: workers, log: log}, nil
}

// Run normalizes every record of the batch. results[i] always corresponds to
// raws[i]. Per-record contract violations are collected and joined; the
// remaining records are still processed.
func (p *Processor) Run(ctx context.Context, raws []tg.MessageClass, opts normalize.Options) ([]normalize.Result, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	runID := uuid.NewString()
	log := p.log.With(slog.String("run_id", runID), slog.Int("records", len(raws)))
	log.Debug("normalizing batch")

	type job struct {
		index int
		raw   tg.MessageClass
	}
	jobs := make(chan job)
	results := make([]normalize.Result, len(raws))
	errs := make([]error, len(raws)+1)

	workers := p.workers
	if workers > len(raws) {
		workers = len(raws)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				result, err := normalize.Message(j.raw, opts)
				if err != nil {
					errs[j.index] = fmt.Errorf("record %d: %w", j.index, err)
					continue
				}
				results[j.index] = result
			}
		}()
	}

feed:
	for i, raw := range raws {
		select {
		case jobs <- job{index: i, raw: raw}:
		case <-ctx.Done():
			errs[len(raws)] = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return results, fmt.Errorf("batch %s: %w", runID, err)
	}
	log.Debug("batch complete")

	return results, nil
}
