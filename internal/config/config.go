package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "freqdict"

	// DefaultIntermediatePath is where single builds write the
	// intermediate document. dicttool reads it from there.
	DefaultIntermediatePath = "intermediate.txt"

	// DefaultJobs builds one dictionary at a time.
	DefaultJobs = 1

	// DefaultLogFormat is the slog handler format.
	DefaultLogFormat = LogFormatText
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Report formats accepted by --report.
const (
	ReportNone     = ""
	ReportText     = "text"
	ReportMarkdown = "markdown"
	ReportJSON     = "json"
)

// Config holds all options of a freqdict run.
// It is populated from CLI flags and the configuration file and passed
// down explicitly; there is no global configuration state.
type Config struct {
	// Dictionary describes the single dictionary given on the command line.
	// It is ignored when Names or All select dictionaries from File.
	Dictionary DictionaryConfig

	// Overrides are settings given on the command line that apply to
	// every dictionary selected from the configuration file.
	Overrides DictionaryConfig

	// DictToolJar replaces the configured compiler command with
	// "java -jar <DictToolJar>" when set.
	DictToolJar string

	// Names selects dictionaries from the configuration file.
	Names []string

	// All selects every dictionary in the configuration file.
	All bool

	// Jobs is the number of dictionaries built concurrently in batch mode.
	// A single build is always sequential.
	Jobs int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the current directory, the home
	// directory and the XDG config directory for .freqdict.
	ConfigFilePath string

	// File holds the loaded configuration file. Never nil after loading.
	File *File

	// Verbose enables debug logging. Otherwise only warnings and errors
	// are logged.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string

	// ReportFormat selects a build summary: ReportNone, ReportText,
	// ReportMarkdown or ReportJSON.
	ReportFormat string

	// ReportFile is the file the summary is written to.
	// Empty means stdout.
	ReportFile string

	// SaveToDB records finished builds in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Jobs:      DefaultJobs,
		LogFormat: DefaultLogFormat,
		SaveToDB:  true,
		DBDir:     XDGDataDir(),
		File:      NewFile(),
	}
}

// BatchMode reports whether dictionaries come from the configuration file.
func (c *Config) BatchMode() bool {
	return c.All || len(c.Names) > 0
}

// XDGDataDir returns the XDG data directory for freqdict.
// On Linux: ~/.local/share/freqdict
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for freqdict.
// On Linux: ~/.config/freqdict
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return ErrInvalidLogFormat
	}

	switch c.ReportFormat {
	case ReportNone, ReportText, ReportMarkdown, ReportJSON:
	default:
		return ErrInvalidReportFormat
	}

	if c.BatchMode() {
		if c.Dictionary.Frequency != "" || c.Dictionary.Output != "" {
			return ErrConflictingModes
		}
		if c.All && len(c.Names) > 0 {
			return ErrConflictingModes
		}
		return nil
	}

	return c.Dictionary.Validate()
}
