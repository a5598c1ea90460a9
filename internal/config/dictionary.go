package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// DictionaryConfig describes how to build one dictionary.
// Pointer fields distinguish "not set" from the zero value so that
// dictionary entries in the configuration file can override defaults.
type DictionaryConfig struct {
	// Frequency is the word-frequency corpus, one "<word> <count>" per line.
	Frequency string `yaml:"frequency,omitempty"`

	// Spellchecking is the optional reference word list, one word per line.
	Spellchecking string `yaml:"spellchecking,omitempty"`

	// Output is the binary dictionary written by the compiler.
	Output string `yaml:"output,omitempty"`

	// Header is the first line of the intermediate document. dicttool
	// requires it, so the compiler only runs when a header is set.
	Header *string `yaml:"header,omitempty"`

	// Intermediate is the path of the intermediate document.
	Intermediate string `yaml:"intermediate,omitempty"`

	// Clamp forces scores into the nominal 16..254 range.
	Clamp *bool `yaml:"clamp,omitempty"`

	// Normalize applies Unicode NFC normalization to corpus and word list.
	Normalize *bool `yaml:"normalize,omitempty"`

	// Compile runs the dictionary compiler after writing the
	// intermediate document. Defaults to true.
	Compile *bool `yaml:"compile,omitempty"`
}

// Validate checks that the dictionary can be built.
func (d DictionaryConfig) Validate() error {
	if d.Frequency == "" {
		return ErrNoFrequency
	}
	if d.Output == "" {
		return ErrNoOutput
	}
	if d.Intermediate == "" {
		return ErrNoIntermediate
	}
	return nil
}

// ClampEnabled reports whether scores are clamped.
func (d DictionaryConfig) ClampEnabled() bool {
	return d.Clamp != nil && *d.Clamp
}

// NormalizeEnabled reports whether NFC normalization is applied.
func (d DictionaryConfig) NormalizeEnabled() bool {
	return d.Normalize != nil && *d.Normalize
}

// CompileEnabled reports whether the compiler should run. It requires
// both a header and Compile not being switched off.
func (d DictionaryConfig) CompileEnabled() bool {
	if d.Header == nil {
		return false
	}
	return d.Compile == nil || *d.Compile
}

// Merge returns d with every field set in override replaced.
func (d DictionaryConfig) Merge(override DictionaryConfig) DictionaryConfig {
	result := d

	if override.Frequency != "" {
		result.Frequency = override.Frequency
	}
	if override.Spellchecking != "" {
		result.Spellchecking = override.Spellchecking
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Header != nil {
		result.Header = override.Header
	}
	if override.Intermediate != "" {
		result.Intermediate = override.Intermediate
	}
	if override.Clamp != nil {
		result.Clamp = override.Clamp
	}
	if override.Normalize != nil {
		result.Normalize = override.Normalize
	}
	if override.Compile != nil {
		result.Compile = override.Compile
	}

	return result
}

// CompilerConfig configures the external dictionary compiler.
type CompilerConfig struct {
	// Command is the program and leading arguments used to run dicttool,
	// e.g. ["java", "-jar", "dicttool_aosp.jar"]. The makedict arguments
	// are appended.
	Command []string `yaml:"command,omitempty"`

	// Env holds extra "KEY=value" environment variables for the compiler.
	Env []string `yaml:"env,omitempty"`
}

// File represents the structure of the .freqdict configuration file.
type File struct {
	// Defaults apply to every dictionary unless overridden.
	Defaults DictionaryConfig `yaml:"defaults,omitempty"`

	// Compiler configures how dicttool is run.
	Compiler CompilerConfig `yaml:"compiler,omitempty"`

	// Dictionaries maps dictionary names (e.g. "en_US") to their settings.
	Dictionaries map[string]DictionaryConfig `yaml:"dictionaries,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{Dictionaries: make(map[string]DictionaryConfig)}
}

// Names returns the configured dictionary names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Dictionaries))
	for name := range f.Dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDictionaryConfig returns the configuration for the named dictionary
// merged over the defaults. When no intermediate path is configured, the
// document is written next to the output as "<name>.intermediate.txt" so
// that dictionaries built in one batch do not overwrite each other.
func (f *File) GetDictionaryConfig(name string) (DictionaryConfig, error) {
	dict, ok := f.Dictionaries[name]
	if !ok {
		return DictionaryConfig{}, fmt.Errorf("%w: %s", ErrUnknownDictionary, name)
	}

	result := f.Defaults.Merge(dict)
	if dict.Intermediate == "" {
		result.Intermediate = filepath.Join(filepath.Dir(result.Output), name+".intermediate.txt")
	}

	return result, nil
}

// Resolve returns the configurations selected by names, or every
// dictionary when all is true, keyed by name in a stable order.
func (f *File) Resolve(names []string, all bool) ([]string, map[string]DictionaryConfig, error) {
	if all {
		names = f.Names()
		if len(names) == 0 {
			return nil, nil, ErrNoDictionaries
		}
	}

	resolved := make(map[string]DictionaryConfig, len(names))
	for _, name := range names {
		dict, err := f.GetDictionaryConfig(name)
		if err != nil {
			return nil, nil, err
		}
		if err := dict.Validate(); err != nil {
			return nil, nil, fmt.Errorf("dictionary %s: %w", name, err)
		}
		resolved[name] = dict
	}

	return names, resolved, nil
}

// DictionaryName derives a build name from an output path,
// e.g. "out/en_US.dict" becomes "en_US".
func DictionaryName(output string) string {
	base := filepath.Base(output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
