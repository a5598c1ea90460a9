package config

import "errors"

// Configuration validation errors.
// They are returned by Validate and can be checked with errors.Is.
var (
	// ErrNoFrequency is returned when no frequency corpus is given.
	ErrNoFrequency = errors.New("no frequency file specified: use --frequency")

	// ErrNoOutput is returned when no dictionary output path is given.
	ErrNoOutput = errors.New("no output dictionary specified: use --output")

	// ErrNoIntermediate is returned when the intermediate path is empty.
	ErrNoIntermediate = errors.New("intermediate file path must not be empty")

	// ErrInvalidJobs is returned when the batch concurrency is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrInvalidReportFormat is returned for an unknown report format.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, markdown or json")

	// ErrConflictingModes is returned when a single build on the command
	// line is combined with dictionaries from the configuration file.
	ErrConflictingModes = errors.New("conflicting build modes: use either --frequency/--output or dictionary names/--all")

	// ErrUnknownDictionary is returned when a requested dictionary is not
	// defined in the configuration file.
	ErrUnknownDictionary = errors.New("dictionary not defined in configuration file")

	// ErrNoDictionaries is returned by --all when the configuration file
	// defines no dictionaries.
	ErrNoDictionaries = errors.New("no dictionaries defined in configuration file")
)
