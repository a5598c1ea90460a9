package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/freqdict/internal/model"
)

func jobs(names ...string) []Job {
	result := make([]Job, len(names))
	for i, name := range names {
		result[i] = Job{Name: name}
	}
	return result
}

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	factory := func(Job) *Pipeline { return New() }

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(factory)
		if bp.Concurrency() != 1 {
			t.Errorf("expected default concurrency 1, got %d", bp.Concurrency())
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(factory, WithConcurrency(4))
		if bp.Concurrency() != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.Concurrency())
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(factory, WithConcurrency(0), WithBatchLogger(nil))
		if bp.Concurrency() != 1 {
			t.Errorf("expected concurrency 1, got %d", bp.Concurrency())
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("builds all dictionaries in job order", func(t *testing.T) {
		t.Parallel()

		var processed atomic.Int32
		bp := NewBatchProcessor(func(Job) *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "counter",
				doFunc: func(context.Context, *model.Build) error {
					processed.Add(1)
					return nil
				},
			})
			return p
		}, WithConcurrency(3))

		results, err := bp.ProcessBatch(context.Background(), jobs("de", "en_US", "fr"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, name := range []string{"de", "en_US", "fr"} {
			if results[i].Name != name {
				t.Errorf("result %d: expected %q, got %q", i, name, results[i].Name)
			}
		}
		if processed.Load() != 3 {
			t.Errorf("expected 3 builds, got %d", processed.Load())
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		var mu sync.Mutex

		bp := NewBatchProcessor(func(Job) *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "slow",
				doFunc: func(context.Context, *model.Build) error {
					n := current.Add(1)
					mu.Lock()
					if n > peak.Load() {
						peak.Store(n)
					}
					mu.Unlock()
					time.Sleep(10 * time.Millisecond)
					current.Add(-1)
					return nil
				},
			})
			return p
		}, WithConcurrency(2))

		if _, err := bp.ProcessBatch(context.Background(), jobs("a", "b", "c", "d", "e")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent builds, got %d", peak.Load())
		}
	})

	t.Run("continues after a failed build", func(t *testing.T) {
		t.Parallel()

		errBroken := errors.New("broken corpus")
		bp := NewBatchProcessor(func(job Job) *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "maybe-fail",
				doFunc: func(context.Context, *model.Build) error {
					if job.Name == "bad" {
						return errBroken
					}
					return nil
				},
			})
			return p
		})

		results, err := bp.ProcessBatch(context.Background(), jobs("good", "bad", "other"))
		if !errors.Is(err, errBroken) {
			t.Fatalf("expected joined error to contain %v, got %v", errBroken, err)
		}
		if results[0].Failed() || results[2].Failed() {
			t.Error("healthy builds must succeed")
		}
		if !results[1].Failed() {
			t.Error("bad build must be marked failed")
		}
	})

	t.Run("reports cancelled jobs", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		bp := NewBatchProcessor(func(Job) *Pipeline {
			p := New()
			p.AddStep(step)
			return p
		})

		results, err := bp.ProcessBatch(ctx, jobs("a", "b"))
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		for _, r := range results {
			if !r.Failed() {
				t.Errorf("%s: expected cancelled build to be failed", r.Name)
			}
		}
		if step.callCount != 0 {
			t.Error("no step should run after cancellation")
		}
	})
}

func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := make(map[int]string)

	bp := NewBatchProcessor(func(Job) *Pipeline { return New() }, WithConcurrency(2))
	err := bp.ProcessBatchWithCallback(context.Background(), jobs("x", "y"), func(build *model.Build, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = build.Name
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen[0] != "x" || seen[1] != "y" {
		t.Errorf("unexpected callbacks: %v", seen)
	}
}
