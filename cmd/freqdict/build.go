package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/freqdict/internal/compiler"
	"github.com/nao1215/freqdict/internal/config"
	"github.com/nao1215/freqdict/internal/database"
	flog "github.com/nao1215/freqdict/internal/log"
	"github.com/nao1215/freqdict/internal/model"
	"github.com/nao1215/freqdict/internal/pipeline"
	"github.com/nao1215/freqdict/internal/report"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [dictionary...]",
		Short: "Build a frequency dictionary",
		Long: `Build reads a word-frequency corpus ("<word> <count>" per line), scales
every count logarithmically into 16..254 and writes the intermediate
text file read by dicttool. When a header is given, dicttool is run to
compile the binary dictionary.

With --spellchecking only words of the given word list (one per line)
are kept. Every finished build is recorded in the history database.

Examples:
  # Write only the intermediate file
  freqdict build -f en.freq -o en_US.dict

  # Filter by a word list and compile with dicttool
  freqdict build -f en.freq -s en_US.txt -o en_US.dict \
    --header "dictionary=main:en_us,locale=en_US,version=54"

  # Build dictionaries defined in .freqdict, two at a time
  freqdict build --all --jobs 2
  freqdict build en_US de

  # Print a Markdown summary to a file
  freqdict build -f en.freq -o en_US.dict --report markdown --report-file en_US.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runBuildCmd,
	}

	// Input and output flags
	cmd.Flags().StringP("frequency", "f", "",
		"Word-frequency corpus, one \"<word> <count>\" per line")
	cmd.Flags().StringP("spellchecking", "s", "",
		"Word list; only words listed here are kept")
	cmd.Flags().StringP("output", "o", "",
		"Binary dictionary written by dicttool")
	cmd.Flags().String("header", "",
		"Header line of the intermediate file; dicttool only runs when set")
	cmd.Flags().String("intermediate", config.DefaultIntermediatePath,
		"Path of the intermediate file")

	// Scoring flags
	cmd.Flags().Bool("clamp", false,
		"Cap scores at 254")
	cmd.Flags().Bool("normalize", false,
		"Apply Unicode NFC normalization to corpus and word list")

	// Compiler flags
	cmd.Flags().Bool("no-compile", false,
		"Do not run dicttool even if a header is set")
	cmd.Flags().String("dicttool", "",
		"Run dicttool from this jar with \"java -jar\"")

	// Batch flags
	cmd.Flags().BoolP("all", "a", false,
		"Build every dictionary in the configuration file")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs,
		"Number of dictionaries built concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .freqdict in current or home directory)")

	// Report flags
	cmd.Flags().String("report", "",
		"Print a build summary: text, markdown or json")
	cmd.Flags().String("report-file", "",
		"Write the summary to this file instead of stdout")
	cmd.Flags().Bool("no-history", false,
		"Do not record the build in the history database")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
	slog.SetDefault(logger)

	// Ctrl-C stops between steps and kills a running dicttool.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runBuild(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return config.DefaultLogFormat
		}
	}
	return format
}

// setupLogger creates a structured logger writing to w.
func setupLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	if format == config.LogFormatJSON {
		return flog.NewJSONLogger(w, verbose)
	}
	return flog.NewLogger(w, verbose)
}

// loadConfigFile loads the configuration file named by path, or the
// first one found in the default locations. An explicitly named file
// must exist; otherwise a missing file yields an empty configuration.
func loadConfigFile(path string) (*config.File, error) {
	found := config.FindConfigFile(path)
	switch {
	case found != "":
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		return file, nil
	case path != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
	default:
		return config.NewFile(), nil
	}
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	var fromFlags config.DictionaryConfig

	if fromFlags.Frequency, err = flags.GetString("frequency"); err != nil {
		return nil, err
	}
	if fromFlags.Spellchecking, err = flags.GetString("spellchecking"); err != nil {
		return nil, err
	}
	if fromFlags.Output, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	if flags.Changed("header") {
		header, err := flags.GetString("header")
		if err != nil {
			return nil, err
		}
		fromFlags.Header = &header
	}
	if flags.Changed("intermediate") {
		if fromFlags.Intermediate, err = flags.GetString("intermediate"); err != nil {
			return nil, err
		}
	}
	if fromFlags.Clamp, err = changedBool(cmd, "clamp"); err != nil {
		return nil, err
	}
	if fromFlags.Normalize, err = changedBool(cmd, "normalize"); err != nil {
		return nil, err
	}
	noCompile, err := changedBool(cmd, "no-compile")
	if err != nil {
		return nil, err
	}
	if noCompile != nil {
		compile := !*noCompile
		fromFlags.Compile = &compile
	}

	if cfg.DictToolJar, err = flags.GetString("dicttool"); err != nil {
		return nil, err
	}
	if cfg.All, err = flags.GetBool("all"); err != nil {
		return nil, err
	}
	if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.ReportFormat, err = flags.GetString("report"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogFormat = getLogFormatFlag(cmd)
	cfg.Names = args

	if cfg.File, err = loadConfigFile(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	// A report file without a format gets a text report.
	if cfg.ReportFile != "" && cfg.ReportFormat == "" {
		cfg.ReportFormat = config.ReportText
	}

	cfg.Overrides = config.DictionaryConfig{
		Header:    fromFlags.Header,
		Clamp:     fromFlags.Clamp,
		Normalize: fromFlags.Normalize,
		Compile:   fromFlags.Compile,
	}

	if cfg.BatchMode() {
		// Kept as given so Validate can reject a mix of both modes.
		cfg.Dictionary = fromFlags
		return cfg, nil
	}

	cfg.Dictionary = cfg.File.Defaults.Merge(fromFlags)
	if cfg.Dictionary.Intermediate == "" {
		cfg.Dictionary.Intermediate = config.DefaultIntermediatePath
	}

	return cfg, nil
}

// changedBool returns the value of a bool flag, or nil if it was not set.
func changedBool(cmd *cobra.Command, name string) (*bool, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// builder runs dictionary builds and handles their output.
type builder struct {
	cfg    *config.Config
	logger *slog.Logger

	// out receives progress messages and, without --report-file, reports.
	out io.Writer

	compiler compiler.Compiler

	// db is nil when history is disabled.
	db *database.HistoryDB

	// report is nil when no summary was requested.
	report report.Writer

	// mu serializes output of concurrent batch builds.
	mu sync.Mutex
}

// newCompiler creates the dicttool invoker described by cfg.
func newCompiler(cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) *compiler.DictTool {
	opts := []compiler.Option{
		compiler.WithOutput(stdout, stderr),
		compiler.WithLogger(logger),
	}
	if len(cfg.File.Compiler.Command) > 0 {
		opts = append(opts, compiler.WithCommand(cfg.File.Compiler.Command...))
	}
	if cfg.DictToolJar != "" {
		opts = append(opts, compiler.WithJar(cfg.DictToolJar))
	}
	if len(cfg.File.Compiler.Env) > 0 {
		opts = append(opts, compiler.WithEnv(cfg.File.Compiler.Env...))
	}
	return compiler.NewDictTool(opts...)
}

// runBuild builds the dictionaries selected by cfg.
func runBuild(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger) error {
	return runBuildWith(ctx, stdout, cfg, logger, newCompiler(cfg, stdout, stderr, logger))
}

// runBuildWith is runBuild with an explicit compiler.
func runBuildWith(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *slog.Logger, c compiler.Compiler) error {
	b := &builder{
		cfg:      cfg,
		logger:   logger,
		out:      stdout,
		compiler: c,
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		b.db = db
		logger.Debug("history database opened", "path", db.Path())
	}

	if cfg.ReportFormat != config.ReportNone {
		output, closeOutput, err := openReportOutput(cfg.ReportFile, stdout)
		if err != nil {
			return err
		}
		defer closeOutput()

		if b.report, err = report.New(cfg.ReportFormat, output, getVersion()); err != nil {
			return err
		}
	}

	if cfg.BatchMode() {
		return b.buildBatch(ctx)
	}
	return b.buildSingle(ctx)
}

// openReportOutput returns the report destination: path if set,
// otherwise stdout.
func openReportOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Report path is user-provided
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// buildSingle builds the dictionary given on the command line.
func (b *builder) buildSingle(ctx context.Context) error {
	dict := b.cfg.Dictionary
	name := config.DictionaryName(dict.Output)

	b.logCompileSkip(name, dict)

	p := pipeline.DefaultPipeline(b.compiler, dict,
		pipeline.WithLogger(b.logger),
		pipeline.WithStepHook(b.progress("")),
	)

	build := pipeline.NewBuild(name, dict)
	err := p.Execute(ctx, build)
	b.finish(ctx, build)

	return err
}

// buildBatch builds the dictionaries selected from the configuration file.
func (b *builder) buildBatch(ctx context.Context) error {
	names, dicts, err := b.cfg.File.Resolve(b.cfg.Names, b.cfg.All)
	if err != nil {
		return err
	}

	jobs := make([]pipeline.Job, 0, len(names))
	for _, name := range names {
		jobs = append(jobs, pipeline.Job{
			Name:       name,
			Dictionary: dicts[name].Merge(b.cfg.Overrides),
		})
	}

	bp := pipeline.NewBatchProcessor(
		func(job pipeline.Job) *pipeline.Pipeline {
			b.logCompileSkip(job.Name, job.Dictionary)
			return pipeline.DefaultPipeline(b.compiler, job.Dictionary,
				pipeline.WithLogger(b.logger.With("dictionary", job.Name)),
				pipeline.WithStepHook(b.progress(job.Name+": ")),
			)
		},
		pipeline.WithConcurrency(b.cfg.Jobs),
		pipeline.WithBatchLogger(b.logger),
	)

	b.printf("Building %d dictionaries (jobs: %d)...\n", len(jobs), bp.Concurrency())
	startTime := time.Now()

	err = bp.ProcessBatchWithCallback(ctx, jobs, func(build *model.Build, index int) {
		status := "done"
		if build.Failed() {
			status = "failed: " + build.ErrorMessage
		}
		b.printf("[%d/%d] %s %s\n", index+1, len(jobs), build.Name, status)
		b.finish(ctx, build)
	})

	b.printf("Batch build completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return err
}

// logCompileSkip explains why dicttool will not run for a dictionary.
func (b *builder) logCompileSkip(name string, dict config.DictionaryConfig) {
	switch {
	case dict.CompileEnabled():
	case dict.Header == nil:
		b.logger.Info("no header given, skipping dictionary compiler", "dictionary", name)
	default:
		b.logger.Info("dictionary compiler disabled", "dictionary", name)
	}
}

// progress returns a step hook printing the progress messages.
func (b *builder) progress(prefix string) func(string, *model.Build) {
	return func(step string, build *model.Build) {
		switch step {
		case pipeline.StepWrite:
			b.printf("%sfrequencies generated\n", prefix)
		case pipeline.StepCompile:
			b.printf("%sdictionary `%s` created\n", prefix, build.OutputPath)
		}
	}
}

// finish records the build and writes its report. Failures here are
// logged and do not change the outcome of the build.
func (b *builder) finish(ctx context.Context, build *model.Build) {
	if b.db != nil {
		// A cancelled build is still recorded.
		id, err := b.db.SaveBuild(context.WithoutCancel(ctx), build)
		if err != nil {
			b.logger.Error("failed to save build history", "dictionary", build.Name, "error", err)
		} else {
			b.logger.Debug("build recorded", "dictionary", build.Name, "id", id)
		}
	}

	if b.report != nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, err := b.report.Write(build); err != nil {
			b.logger.Error("failed to write report", "dictionary", build.Name, "error", err)
		}
	}
}

// printf writes a progress message to stdout.
func (b *builder) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}
