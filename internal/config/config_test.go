package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

// TestNewConfig verifies the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Jobs is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Jobs != 1 {
			t.Errorf("expected Jobs to be 1, got %d", cfg.Jobs)
		}
	})

	t.Run("default LogFormat is text", func(t *testing.T) {
		t.Parallel()
		if cfg.LogFormat != LogFormatText {
			t.Errorf("expected LogFormat to be text, got %q", cfg.LogFormat)
		}
	})

	t.Run("history is saved by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("file is initialized", func(t *testing.T) {
		t.Parallel()
		if cfg.File == nil || cfg.File.Dictionaries == nil {
			t.Error("expected empty configuration file")
		}
	})
}

// TestConfigValidate tests the Validate method.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Dictionary = DictionaryConfig{
			Frequency:    "en.txt",
			Output:       "en.dict",
			Intermediate: DefaultIntermediatePath,
		}
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "valid single build", modify: func(*Config) {}, want: nil},
		{name: "missing frequency", modify: func(c *Config) { c.Dictionary.Frequency = "" }, want: ErrNoFrequency},
		{name: "missing output", modify: func(c *Config) { c.Dictionary.Output = "" }, want: ErrNoOutput},
		{name: "missing intermediate", modify: func(c *Config) { c.Dictionary.Intermediate = "" }, want: ErrNoIntermediate},
		{name: "zero jobs", modify: func(c *Config) { c.Jobs = 0 }, want: ErrInvalidJobs},
		{name: "bad log format", modify: func(c *Config) { c.LogFormat = "xml" }, want: ErrInvalidLogFormat},
		{name: "bad report format", modify: func(c *Config) { c.ReportFormat = "pdf" }, want: ErrInvalidReportFormat},
		{name: "markdown report", modify: func(c *Config) { c.ReportFormat = ReportMarkdown }, want: nil},
		{
			name: "batch by name",
			modify: func(c *Config) {
				c.Dictionary = DictionaryConfig{}
				c.Names = []string{"en"}
			},
			want: nil,
		},
		{name: "batch with single flags", modify: func(c *Config) { c.All = true }, want: ErrConflictingModes},
		{
			name: "all with names",
			modify: func(c *Config) {
				c.Dictionary = DictionaryConfig{}
				c.All = true
				c.Names = []string{"en"}
			},
			want: ErrConflictingModes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestDictionaryConfigFlags tests the derived boolean settings.
func TestDictionaryConfigFlags(t *testing.T) {
	t.Parallel()

	t.Run("compile requires a header", func(t *testing.T) {
		t.Parallel()
		d := DictionaryConfig{}
		if d.CompileEnabled() {
			t.Error("expected compile to be disabled without header")
		}
		d.Header = strPtr("dictionary=main:en")
		if !d.CompileEnabled() {
			t.Error("expected compile to be enabled with header")
		}
		d.Compile = boolPtr(false)
		if d.CompileEnabled() {
			t.Error("expected compile to be disabled explicitly")
		}
	})

	t.Run("clamp and normalize default off", func(t *testing.T) {
		t.Parallel()
		d := DictionaryConfig{}
		if d.ClampEnabled() || d.NormalizeEnabled() {
			t.Error("expected clamp and normalize to be off")
		}
		d.Clamp = boolPtr(true)
		d.Normalize = boolPtr(true)
		if !d.ClampEnabled() || !d.NormalizeEnabled() {
			t.Error("expected clamp and normalize to be on")
		}
	})
}

// TestFileGetDictionaryConfig tests merging with defaults.
func TestFileGetDictionaryConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: DictionaryConfig{
			Spellchecking: "/words/default.txt",
			Clamp:         boolPtr(true),
			Header:        strPtr("default header"),
		},
		Dictionaries: map[string]DictionaryConfig{
			"en_US": {
				Frequency: "/corpus/en.txt",
				Output:    "/out/en_US.dict",
				Clamp:     boolPtr(false),
			},
			"de": {
				Frequency:     "/corpus/de.txt",
				Output:        "/out/de.dict",
				Spellchecking: "/words/de.txt",
				Intermediate:  "/tmp/de.txt",
				Header:        strPtr(""),
			},
		},
	}

	t.Run("inherits defaults", func(t *testing.T) {
		t.Parallel()

		got, err := file.GetDictionaryConfig("en_US")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Spellchecking != "/words/default.txt" {
			t.Errorf("expected default spellchecking, got %q", got.Spellchecking)
		}
		if got.ClampEnabled() {
			t.Error("expected override to disable clamp")
		}
		if got.Header == nil || *got.Header != "default header" {
			t.Errorf("expected default header, got %v", got.Header)
		}
		if got.Intermediate != filepath.Join("/out", "en_US.intermediate.txt") {
			t.Errorf("unexpected intermediate path %q", got.Intermediate)
		}
	})

	t.Run("overrides defaults", func(t *testing.T) {
		t.Parallel()

		got, err := file.GetDictionaryConfig("de")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Spellchecking != "/words/de.txt" {
			t.Errorf("expected override spellchecking, got %q", got.Spellchecking)
		}
		if got.Intermediate != "/tmp/de.txt" {
			t.Errorf("expected explicit intermediate, got %q", got.Intermediate)
		}
		if got.Header == nil || *got.Header != "" {
			t.Errorf("expected empty header override, got %v", got.Header)
		}
	})

	t.Run("unknown dictionary", func(t *testing.T) {
		t.Parallel()

		_, err := file.GetDictionaryConfig("fr")
		if !errors.Is(err, ErrUnknownDictionary) {
			t.Errorf("expected ErrUnknownDictionary, got %v", err)
		}
	})

	t.Run("resolve all in sorted order", func(t *testing.T) {
		t.Parallel()

		names, dicts, err := file.Resolve(nil, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(names) != 2 || names[0] != "de" || names[1] != "en_US" {
			t.Errorf("unexpected names %v", names)
		}
		if len(dicts) != 2 {
			t.Errorf("expected 2 dictionaries, got %d", len(dicts))
		}
	})

	t.Run("resolve all on empty file", func(t *testing.T) {
		t.Parallel()

		_, _, err := NewFile().Resolve(nil, true)
		if !errors.Is(err, ErrNoDictionaries) {
			t.Errorf("expected ErrNoDictionaries, got %v", err)
		}
	})

	t.Run("resolve rejects incomplete dictionary", func(t *testing.T) {
		t.Parallel()

		f := &File{Dictionaries: map[string]DictionaryConfig{"x": {Frequency: "x.txt"}}}
		_, _, err := f.Resolve([]string{"x"}, false)
		if !errors.Is(err, ErrNoOutput) {
			t.Errorf("expected ErrNoOutput, got %v", err)
		}
	})
}

// TestDictionaryName tests name derivation from output paths.
func TestDictionaryName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"en_US.dict":          "en_US",
		"out/de.dict":         "de",
		"main_fr":             "main_fr",
		"/abs/path/pt_BR.bin": "pt_BR",
	}
	for in, want := range tests {
		if got := DictionaryName(in); got != want {
			t.Errorf("DictionaryName(%q) = %q, expected %q", in, got, want)
		}
	}
}

// TestLoadConfigFile tests YAML loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads dictionaries and resolves relative paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
defaults:
  spellchecking: words/common.txt
  clamp: true
compiler:
  command: ["java", "-jar", "/opt/dicttool.jar"]
  env: ["JAVA_TOOL_OPTIONS=-Xmx2g"]
dictionaries:
  en_US:
    frequency: corpus/en_US.txt
    output: /out/en_US.dict
    header: "dictionary=main:en_us,locale=en_US"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		en := cf.Dictionaries["en_US"]
		if en.Frequency != filepath.Join(dir, "corpus", "en_US.txt") {
			t.Errorf("expected relative path resolved, got %q", en.Frequency)
		}
		if en.Output != "/out/en_US.dict" {
			t.Errorf("expected absolute path unchanged, got %q", en.Output)
		}
		if en.Header == nil || *en.Header != "dictionary=main:en_us,locale=en_US" {
			t.Errorf("unexpected header %v", en.Header)
		}
		if cf.Defaults.Spellchecking != filepath.Join(dir, "words", "common.txt") {
			t.Errorf("unexpected defaults spellchecking %q", cf.Defaults.Spellchecking)
		}
		if !cf.Defaults.ClampEnabled() {
			t.Error("expected default clamp")
		}
		if len(cf.Compiler.Command) != 3 || cf.Compiler.Command[2] != "/opt/dicttool.jar" {
			t.Errorf("unexpected compiler command %v", cf.Compiler.Command)
		}
		if len(cf.Compiler.Env) != 1 {
			t.Errorf("unexpected compiler env %v", cf.Compiler.Env)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("empty file has initialized map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatal(err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Dictionaries == nil {
			t.Error("expected Dictionaries to be initialized")
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("dictionaries: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests explicit path lookup.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})
}
