package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/freqdict/internal/compiler"
	"github.com/nao1215/freqdict/internal/config"
	"github.com/nao1215/freqdict/internal/database"
	"github.com/nao1215/freqdict/internal/freq"
)

func ptr[T any](v T) *T {
	return &v
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// fakeCompiler writes a marker file instead of running dicttool.
func fakeCompiler(calls *int) compiler.Func {
	return func(_ context.Context, intermediatePath, outputPath string) error {
		*calls++
		return os.WriteFile(outputPath, []byte("compiled "+intermediatePath), 0600)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNewBuildCmd(t *testing.T) {
	t.Parallel()

	cmd := NewBuildCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "frequency", shorthand: "f", defValue: ""},
		{name: "spellchecking", shorthand: "s", defValue: ""},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "header", defValue: ""},
		{name: "intermediate", defValue: config.DefaultIntermediatePath},
		{name: "clamp", defValue: "false"},
		{name: "normalize", defValue: "false"},
		{name: "no-compile", defValue: "false"},
		{name: "dicttool", defValue: ""},
		{name: "all", shorthand: "a", defValue: "false"},
		{name: "jobs", shorthand: "j", defValue: "1"},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "report", defValue: ""},
		{name: "report-file", defValue: ""},
		{name: "no-history", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	// parse returns the configuration for args, using an empty
	// configuration file so that no user file is picked up.
	parse := func(t *testing.T, args ...string) *config.Config {
		t.Helper()
		cfgFile := writeFile(t, t.TempDir(), ".freqdict", "defaults:\n  clamp: true\n")

		cmd := NewBuildCmd()
		if err := cmd.ParseFlags(append([]string{"-c", cfgFile}, args...)); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		cfg, err := buildConfig(cmd, cmd.Flags().Args())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return cfg
	}

	t.Run("single build", func(t *testing.T) {
		t.Parallel()
		cfg := parse(t, "-f", "en.freq", "-s", "en.txt", "-o", "en_US.dict", "--header", "h")

		if cfg.BatchMode() {
			t.Error("expected single mode")
		}
		d := cfg.Dictionary
		if d.Frequency != "en.freq" || d.Spellchecking != "en.txt" || d.Output != "en_US.dict" {
			t.Errorf("unexpected paths: %+v", d)
		}
		if d.Intermediate != config.DefaultIntermediatePath {
			t.Errorf("expected default intermediate, got %q", d.Intermediate)
		}
		if d.Header == nil || *d.Header != "h" {
			t.Errorf("expected header 'h', got %v", d.Header)
		}
		if !d.ClampEnabled() {
			t.Error("expected clamp from configuration defaults")
		}
		if !d.CompileEnabled() {
			t.Error("expected compilation with a header")
		}
		if !cfg.SaveToDB {
			t.Error("expected history enabled by default")
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("empty header is a header", func(t *testing.T) {
		t.Parallel()
		cfg := parse(t, "-f", "en.freq", "-o", "en.dict", "--header", "")
		if cfg.Dictionary.Header == nil {
			t.Error("expected empty header to be set")
		}
	})

	t.Run("flags override configuration defaults", func(t *testing.T) {
		t.Parallel()
		cfg := parse(t, "-f", "en.freq", "-o", "en.dict", "--clamp=false", "--no-compile", "--header", "h")
		if cfg.Dictionary.ClampEnabled() {
			t.Error("expected --clamp=false to override the file")
		}
		if cfg.Dictionary.CompileEnabled() {
			t.Error("expected --no-compile to disable compilation")
		}
	})

	t.Run("batch mode keeps overrides", func(t *testing.T) {
		t.Parallel()
		cfg := parse(t, "--normalize", "-j", "3", "en_US", "de")

		if !cfg.BatchMode() {
			t.Fatal("expected batch mode")
		}
		if len(cfg.Names) != 2 || cfg.Names[0] != "en_US" {
			t.Errorf("unexpected names: %v", cfg.Names)
		}
		if cfg.Jobs != 3 {
			t.Errorf("expected 3 jobs, got %d", cfg.Jobs)
		}
		if !cfg.Overrides.NormalizeEnabled() {
			t.Error("expected normalize override")
		}
		if cfg.Overrides.Clamp != nil {
			t.Error("clamp was not given on the command line")
		}
	})

	t.Run("batch mode rejects single build flags", func(t *testing.T) {
		t.Parallel()
		cfg := parse(t, "-a", "-f", "en.freq")
		if err := cfg.Validate(); !errors.Is(err, config.ErrConflictingModes) {
			t.Errorf("expected ErrConflictingModes, got %v", err)
		}
	})

	t.Run("report file defaults to text", func(t *testing.T) {
		t.Parallel()
		cfg := parse(t, "-f", "en.freq", "-o", "en.dict", "--report-file", "r.txt", "--no-history")
		if cfg.ReportFormat != config.ReportText {
			t.Errorf("expected text report, got %q", cfg.ReportFormat)
		}
		if cfg.SaveToDB {
			t.Error("expected history disabled")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()
		cmd := NewBuildCmd()
		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		if _, err := buildConfig(cmd, nil); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestRunBuildWith(t *testing.T) {
	t.Parallel()

	t.Run("single build compiles and records history", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.NewConfig()
		cfg.DBDir = filepath.Join(dir, "db")
		cfg.Dictionary = config.DictionaryConfig{
			Frequency:     writeFile(t, dir, "freq.txt", "hello 10\nworld 5\nxyz 1\n"),
			Spellchecking: writeFile(t, dir, "words.txt", "hello\nworld\n"),
			Output:        filepath.Join(dir, "en_US.dict"),
			Intermediate:  filepath.Join(dir, "intermediate.txt"),
			Header:        ptr("dictionary=main:en_us"),
		}

		calls := 0
		var stdout bytes.Buffer
		err := runBuildWith(context.Background(), &stdout, cfg, discardLogger(), fakeCompiler(&calls))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if calls != 1 {
			t.Errorf("expected 1 compiler call, got %d", calls)
		}
		expected := "frequencies generated\ndictionary `" + cfg.Dictionary.Output + "` created\n"
		if stdout.String() != expected {
			t.Errorf("unexpected progress output:\ngot:  %q\nwant: %q", stdout.String(), expected)
		}
		want := "dictionary=main:en_us\n word=hello,f=219\n word=world,f=158\n"
		if got := readFile(t, cfg.Dictionary.Intermediate); got != want {
			t.Errorf("intermediate mismatch:\ngot:\n%s\nwant:\n%s", got, want)
		}

		db, err := database.Open(cfg.DBDir, database.Options{})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		latest, err := db.LatestBuild(context.Background(), "en_US")
		if err != nil {
			t.Fatalf("failed to query history: %v", err)
		}
		if latest == nil {
			t.Fatal("expected build to be recorded")
		}
		if !latest.Compiled || latest.Total != 15 {
			t.Errorf("unexpected recorded build: compiled=%v total=%d", latest.Compiled, latest.Total)
		}
	})

	t.Run("no header writes only the intermediate file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.NewConfig()
		cfg.SaveToDB = false
		cfg.Dictionary = config.DictionaryConfig{
			Frequency:    writeFile(t, dir, "freq.txt", "a 1\nb 1\n"),
			Output:       filepath.Join(dir, "out.dict"),
			Intermediate: filepath.Join(dir, "intermediate.txt"),
		}

		calls := 0
		var stdout bytes.Buffer
		if err := runBuildWith(context.Background(), &stdout, cfg, discardLogger(), fakeCompiler(&calls)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if calls != 0 {
			t.Errorf("compiler must not run without a header, got %d calls", calls)
		}
		if stdout.String() != "frequencies generated\n" {
			t.Errorf("unexpected progress output: %q", stdout.String())
		}
		if got := readFile(t, cfg.Dictionary.Intermediate); got != " word=a,f=16\n word=b,f=16\n" {
			t.Errorf("unexpected intermediate: %q", got)
		}
		if _, err := os.Stat(cfg.Dictionary.Output); !os.IsNotExist(err) {
			t.Error("expected no dictionary output")
		}
	})

	t.Run("malformed corpus fails without output", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.NewConfig()
		cfg.DBDir = dir
		cfg.Dictionary = config.DictionaryConfig{
			Frequency:    writeFile(t, dir, "freq.txt", "hello ten\n"),
			Output:       filepath.Join(dir, "out.dict"),
			Intermediate: filepath.Join(dir, "intermediate.txt"),
		}

		calls := 0
		var stdout bytes.Buffer
		err := runBuildWith(context.Background(), &stdout, cfg, discardLogger(), fakeCompiler(&calls))
		if !errors.Is(err, freq.ErrInputFormat) {
			t.Fatalf("expected ErrInputFormat, got %v", err)
		}
		if _, err := os.Stat(cfg.Dictionary.Intermediate); !os.IsNotExist(err) {
			t.Error("expected no intermediate file")
		}

		db, err := database.Open(cfg.DBDir, database.Options{})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		records, err := db.History(context.Background(), "out")
		if err != nil {
			t.Fatalf("failed to query history: %v", err)
		}
		if len(records) != 1 || records[0].Error == "" {
			t.Errorf("expected one failed record, got %+v", records)
		}
	})

	t.Run("writes report file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.NewConfig()
		cfg.SaveToDB = false
		cfg.ReportFormat = config.ReportJSON
		cfg.ReportFile = filepath.Join(dir, "reports", "en.json")
		cfg.Dictionary = config.DictionaryConfig{
			Frequency:    writeFile(t, dir, "freq.txt", "hello 10\nworld 5\n"),
			Output:       filepath.Join(dir, "en.dict"),
			Intermediate: filepath.Join(dir, "intermediate.txt"),
		}

		calls := 0
		var stdout bytes.Buffer
		if err := runBuildWith(context.Background(), &stdout, cfg, discardLogger(), fakeCompiler(&calls)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := readFile(t, cfg.ReportFile)
		for _, want := range []string{`"summary"`, `"name": "en"`, `"entries": 2`} {
			if !strings.Contains(got, want) {
				t.Errorf("expected report to contain %s, got:\n%s", want, got)
			}
		}
		if strings.Contains(stdout.String(), `"summary"`) {
			t.Error("report must not be printed to stdout when a report file is set")
		}
	})

	t.Run("batch continues after a failure", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.NewConfig()
		cfg.SaveToDB = false
		cfg.All = true
		cfg.Overrides = config.DictionaryConfig{Header: ptr("h")}
		cfg.File = config.NewFile()
		cfg.File.Dictionaries["bad"] = config.DictionaryConfig{
			Frequency: writeFile(t, dir, "bad.freq", "word 0\n"),
			Output:    filepath.Join(dir, "bad.dict"),
		}
		cfg.File.Dictionaries["good"] = config.DictionaryConfig{
			Frequency: writeFile(t, dir, "good.freq", "hello 10\nworld 5\n"),
			Output:    filepath.Join(dir, "good.dict"),
		}

		calls := 0
		var stdout bytes.Buffer
		err := runBuildWith(context.Background(), &stdout, cfg, discardLogger(), fakeCompiler(&calls))
		if !errors.Is(err, freq.ErrDomain) {
			t.Fatalf("expected ErrDomain, got %v", err)
		}

		out := stdout.String()
		for _, want := range []string{
			"Building 2 dictionaries (jobs: 1)...",
			"bad failed:",
			"good done",
			"good: frequencies generated",
			"Batch build completed in",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
		if calls != 1 {
			t.Errorf("expected 1 compiler call, got %d", calls)
		}
		if got := readFile(t, filepath.Join(dir, "good.intermediate.txt")); !strings.HasPrefix(got, "h\n") {
			t.Errorf("expected header override in intermediate, got %q", got)
		}
	})

	t.Run("batch with unknown dictionary", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.SaveToDB = false
		cfg.Names = []string{"missing"}

		var stdout bytes.Buffer
		err := runBuildWith(context.Background(), &stdout, cfg, discardLogger(), compiler.Noop)
		if !errors.Is(err, config.ErrUnknownDictionary) {
			t.Errorf("expected ErrUnknownDictionary, got %v", err)
		}
	})
}

func TestNewCompiler(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.File.Compiler.Command = []string{"dicttool"}
	cfg.DictToolJar = "/opt/dicttool.jar"

	c := newCompiler(cfg, &bytes.Buffer{}, &bytes.Buffer{}, discardLogger())
	got := strings.Join(c.Args("in.txt", "out.dict"), " ")
	want := "java -jar /opt/dicttool.jar makedict -s in.txt -d out.dict"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
