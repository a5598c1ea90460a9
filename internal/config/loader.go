package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".freqdict"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads dictionary configurations from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if cf.Dictionaries == nil {
		cf.Dictionaries = make(map[string]DictionaryConfig)
	}

	// Relative paths are relative to the configuration file, not to the
	// directory freqdict happens to run in.
	cf.resolvePaths(filepath.Dir(path))

	return &cf, nil
}

// resolvePaths makes the file paths in cf absolute relative to base.
func (cf *File) resolvePaths(base string) {
	cf.Defaults = cf.Defaults.resolvePaths(base)
	for name, dict := range cf.Dictionaries {
		cf.Dictionaries[name] = dict.resolvePaths(base)
	}
}

func (d DictionaryConfig) resolvePaths(base string) DictionaryConfig {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	d.Frequency = join(d.Frequency)
	d.Spellchecking = join(d.Spellchecking)
	d.Output = join(d.Output)
	d.Intermediate = join(d.Intermediate)
	return d
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .freqdict in the current directory
// 3. Look for .freqdict in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
