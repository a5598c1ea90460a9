package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/freqdict/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the build
// accumulated by the previous steps.
type Step interface {
	// Do executes the pipeline step. Any error stops the build.
	Do(ctx context.Context, build *model.Build) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// onStepDone is called after each successful step.
	onStepDone func(step string, build *model.Build)
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithStepHook sets a function called after every successful step,
// e.g. to print progress. It runs on the goroutine executing the pipeline.
func WithStepHook(hook func(step string, build *model.Build)) Option {
	return func(p *Pipeline) {
		p.onStepDone = hook
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and records the elapsed
// time in build.Duration.
//
// Cancellation is checked before each step; a running step is expected
// to honor ctx itself. The first error is recorded in the build and
// returned, and no further steps run.
func (p *Pipeline) Execute(ctx context.Context, build *model.Build) error {
	start := time.Now()
	defer func() {
		build.Duration = time.Since(start)
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"dictionary", build.Name,
				"reason", ctx.Err(),
			)
			build.SetError(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"dictionary", build.Name,
		)

		if err := step.Do(ctx, build); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"dictionary", build.Name,
				"error", err,
			)
			build.SetError(err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"dictionary", build.Name,
		)
		build.PerformedSteps = append(build.PerformedSteps, step.Name())
		if p.onStepDone != nil {
			p.onStepDone(step.Name(), build)
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
