package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/freqdict/internal/compiler"
	"github.com/nao1215/freqdict/internal/config"
	"github.com/nao1215/freqdict/internal/freq"
	"github.com/nao1215/freqdict/internal/intermediate"
	"github.com/nao1215/freqdict/internal/model"
)

// Step names, in pipeline order.
const (
	StepLoad    = "load"
	StepFilter  = "filter"
	StepScale   = "scale"
	StepWrite   = "write"
	StepCompile = "compile"
)

// LoadStep reads the corpus and the optional reference word list into
// memory.
type LoadStep struct {
	// normalize applies NFC normalization to both inputs.
	normalize bool

	// logger for structured logging.
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadNormalize enables NFC normalization of the inputs.
func WithLoadNormalize(normalize bool) LoadStepOption {
	return func(s *LoadStep) {
		s.normalize = normalize
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return StepLoad
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, build *model.Build) error {
	corpus, err := os.ReadFile(build.FrequencyPath)
	if err != nil {
		return fmt.Errorf("failed to read frequency file: %w", err)
	}
	build.CorpusText = string(corpus)
	if s.normalize {
		build.CorpusText = freq.NormalizeNFC(build.CorpusText)
	}
	s.logger.Debug("corpus loaded", "path", build.FrequencyPath, "bytes", len(corpus))

	if build.SpellcheckingPath == "" {
		return nil
	}

	words, err := os.ReadFile(build.SpellcheckingPath)
	if err != nil {
		return fmt.Errorf("failed to read spellchecking file: %w", err)
	}
	text := string(words)
	if s.normalize {
		text = freq.NormalizeNFC(text)
	}
	build.Reference = model.ParseReferenceSet(text)
	build.ReferenceSize = build.Reference.Len()
	s.logger.Debug("reference set loaded", "path", build.SpellcheckingPath, "words", build.ReferenceSize)

	return nil
}

// FilterStep parses the corpus and keeps the words accepted by the
// reference set, or every non-empty word when there is none.
type FilterStep struct {
	logger *slog.Logger
}

// NewFilterStep creates a new filter step.
func NewFilterStep(logger *slog.Logger) *FilterStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterStep{logger: logger}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return StepFilter
}

// Do executes the filter step.
func (s *FilterStep) Do(_ context.Context, build *model.Build) error {
	filter := freq.NewFilter(build.Reference)

	result, err := freq.ParseCorpus(build.CorpusText, filter)
	if err != nil {
		return fmt.Errorf("%s: %w", build.FrequencyPath, err)
	}

	build.Entries = result.Entries
	build.LinesRead = result.LinesRead
	build.SkippedEmpty = result.SkippedEmpty
	build.SkippedUnknown = result.SkippedUnknown
	// The raw text is no longer needed and can be large.
	build.CorpusText = ""

	s.logger.Info("corpus filtered",
		"filter", filter.Name(),
		"kept", len(result.Entries),
		"skippedEmpty", result.SkippedEmpty,
		"skippedUnknown", result.SkippedUnknown,
	)
	return nil
}

// ScaleStep converts raw counts into scores.
type ScaleStep struct {
	scaler *freq.Scaler
	logger *slog.Logger
}

// NewScaleStep creates a new scale step using scaler.
func NewScaleStep(scaler *freq.Scaler, logger *slog.Logger) *ScaleStep {
	if scaler == nil {
		scaler = freq.NewScaler()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScaleStep{scaler: scaler, logger: logger}
}

// Name returns the step name.
func (s *ScaleStep) Name() string {
	return StepScale
}

// Do executes the scale step.
func (s *ScaleStep) Do(_ context.Context, build *model.Build) error {
	scaled, stats, err := s.scaler.Scale(build.Entries)
	if err != nil {
		return err
	}

	build.Scaled = scaled
	build.Total = stats.Total
	build.MinScore = stats.Min
	build.MaxScore = stats.Max
	build.Clamped = stats.Clamped
	build.Histogram = model.Histogram(scaled)

	if stats.Max > freq.MaxValue {
		s.logger.Warn("scores exceed the nominal maximum; use --clamp to cap them",
			"dictionary", build.Name,
			"max", stats.Max,
			"limit", freq.MaxValue,
		)
	}

	s.logger.Info("frequencies scaled",
		"entries", len(scaled),
		"total", stats.Total,
		"min", stats.Min,
		"max", stats.Max,
		"clamped", stats.Clamped,
	)
	return nil
}

// WriteStep writes the intermediate document.
type WriteStep struct {
	logger *slog.Logger
}

// NewWriteStep creates a new write step.
func NewWriteStep(logger *slog.Logger) *WriteStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteStep{logger: logger}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return StepWrite
}

// Do executes the write step.
func (s *WriteStep) Do(_ context.Context, build *model.Build) error {
	sum, err := intermediate.WriteFile(build.IntermediatePath, build.Document())
	if err != nil {
		return err
	}
	build.Checksum = sum

	s.logger.Info("intermediate document written",
		"path", build.IntermediatePath,
		"entries", len(build.Scaled),
		"sha3", sum,
	)
	return nil
}

// CompileStep runs the external dictionary compiler.
type CompileStep struct {
	compiler compiler.Compiler
	logger   *slog.Logger
}

// NewCompileStep creates a new compile step.
func NewCompileStep(c compiler.Compiler, logger *slog.Logger) *CompileStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompileStep{compiler: c, logger: logger}
}

// Name returns the step name.
func (s *CompileStep) Name() string {
	return StepCompile
}

// Do executes the compile step.
func (s *CompileStep) Do(ctx context.Context, build *model.Build) error {
	if err := s.compiler.Compile(ctx, build.IntermediatePath, build.OutputPath); err != nil {
		return fmt.Errorf("failed to create %s: %w", build.OutputPath, err)
	}
	build.Compiled = true

	s.logger.Info("dictionary compiled", "output", build.OutputPath)
	return nil
}

// NewBuild creates the build state for a dictionary configuration.
func NewBuild(name string, dict config.DictionaryConfig) *model.Build {
	build := model.NewBuild(name)
	build.FrequencyPath = dict.Frequency
	build.SpellcheckingPath = dict.Spellchecking
	build.IntermediatePath = dict.Intermediate
	build.OutputPath = dict.Output
	if dict.Header != nil {
		build.Header = *dict.Header
		build.HasHeader = true
	}
	return build
}

// DefaultPipeline creates a pipeline with all steps for dict.
// The compile step is only added when dict.CompileEnabled() is true;
// dicttool refuses documents without a header line.
func DefaultPipeline(c compiler.Compiler, dict config.DictionaryConfig, opts ...Option) *Pipeline {
	p := New(opts...)

	p.AddSteps(
		NewLoadStep(
			WithLoadNormalize(dict.NormalizeEnabled()),
			WithLoadLogger(p.logger),
		),
		NewFilterStep(p.logger),
		NewScaleStep(freq.NewScaler(freq.WithClamp(dict.ClampEnabled())), p.logger),
		NewWriteStep(p.logger),
	)

	if dict.CompileEnabled() && c != nil {
		p.AddStep(NewCompileStep(c, p.logger))
	}

	return p
}
