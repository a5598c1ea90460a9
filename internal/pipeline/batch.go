package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/freqdict/internal/config"
	"github.com/nao1215/freqdict/internal/model"
	"golang.org/x/sync/errgroup"
)

// Job is a single dictionary build in a batch.
type Job struct {
	// Name identifies the dictionary.
	Name string

	// Dictionary holds the resolved settings for the build.
	Dictionary config.DictionaryConfig
}

// BatchProcessor builds multiple dictionaries concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func(job Job) *Pipeline

	// concurrency is the maximum number of concurrent builds.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed builds in job order.
	results []*model.Build
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent builds.
// Default is 1, values below 1 are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per job so that no pipeline state is
// shared between builds.
func NewBatchProcessor(pipelineFactory func(job Job) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     config.DefaultJobs,
		results:         make([]*model.Build, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Concurrency returns the configured concurrency limit.
func (bp *BatchProcessor) Concurrency() int {
	return bp.concurrency
}

// ProcessBatch builds every job, at most Concurrency() at a time.
//
// A failing build does not stop the others. All builds are returned in
// job order, and the returned error joins the errors of every failed
// build. Jobs not started before ctx is cancelled are reported with
// ctx.Err().
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []Job) ([]*model.Build, error) {
	bp.logger.Info("starting batch processing",
		"dictionaries", len(jobs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	bp.results = make([]*model.Build, len(jobs))

	err := bp.ProcessBatchWithCallback(ctx, jobs, func(build *model.Build, index int) {
		bp.mu.Lock()
		bp.results[index] = build
		bp.mu.Unlock()
	})

	bp.logger.Info("batch processing complete",
		"dictionaries", len(jobs),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback builds every job and calls callback for each
// finished build, successful or not. The callback runs on the goroutine
// that ran the build, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []Job,
	callback func(build *model.Build, index int),
) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			build := NewBuild(job.Name, job.Dictionary)

			if err := ctx.Err(); err != nil {
				build.SetError(err)
			} else {
				bp.logger.Info("building dictionary",
					"dictionary", job.Name,
					"index", i+1,
					"total", len(jobs),
				)
				if err := bp.pipelineFactory(job).Execute(ctx, build); err != nil {
					bp.logger.Warn("build failed",
						"dictionary", job.Name,
						"error", err,
					)
				}
			}

			if build.Error != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", job.Name, build.Error))
				mu.Unlock()
			}

			callback(build, i)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines never return an error
	return errors.Join(errs...)
}
