package model

import "time"

// Build is the state of a single dictionary build.
// The pipeline creates one Build per dictionary and every step reads
// from and writes to it. Large intermediate data (entries, reference
// set) is excluded from JSON so that builds can be stored as history.
type Build struct {
	// === Identity ===

	// Name identifies the dictionary, e.g. "en_US". Single builds
	// without a configured name use the output file's base name.
	Name string `json:"name"`

	// DateBuilt is when the build started.
	DateBuilt time.Time `json:"date_built"`

	// Duration is the wall-clock time the pipeline took.
	Duration time.Duration `json:"duration"`

	// === Inputs ===

	// FrequencyPath is the corpus file path.
	FrequencyPath string `json:"frequency_path"`

	// SpellcheckingPath is the reference word list path.
	// Empty means no reference set is used.
	SpellcheckingPath string `json:"spellchecking_path,omitempty"`

	// Header is the first line written to the intermediate document.
	Header string `json:"header,omitempty"`

	// HasHeader reports whether Header is written at all.
	HasHeader bool `json:"has_header"`

	// === Outputs ===

	// IntermediatePath is where the intermediate text document is written.
	IntermediatePath string `json:"intermediate_path"`

	// OutputPath is the binary dictionary produced by the compiler.
	OutputPath string `json:"output_path"`

	// Checksum is the SHA3-256 hex digest of the intermediate document.
	Checksum string `json:"checksum,omitempty"`

	// Compiled is true once the external compiler finished successfully.
	Compiled bool `json:"compiled"`

	// === Working data (not persisted) ===

	// CorpusText is the raw corpus content.
	CorpusText string `json:"-"`

	// Reference is the reference word list, or nil when none is used.
	Reference *ReferenceSet `json:"-"`

	// Entries are the filtered corpus entries in input order.
	Entries []FrequencyEntry `json:"-"`

	// Scaled are the scored entries in input order.
	Scaled []ScaledEntry `json:"-"`

	// === Statistics ===

	// LinesRead is the number of corpus lines examined.
	LinesRead int `json:"lines_read"`

	// SkippedEmpty counts lines dropped because the word was empty.
	SkippedEmpty int `json:"skipped_empty"`

	// SkippedUnknown counts lines dropped because the word is not in
	// the reference set.
	SkippedUnknown int `json:"skipped_unknown"`

	// ReferenceSize is the number of words in the reference set.
	ReferenceSize int `json:"reference_size,omitempty"`

	// Total is the sum of all filtered raw counts.
	Total uint64 `json:"total"`

	// MinScore and MaxScore are the extremes of the scaled scores.
	MinScore int `json:"min_score"`
	MaxScore int `json:"max_score"`

	// Clamped counts scores that were forced into range.
	Clamped int `json:"clamped"`

	// Histogram counts scores per band, see ScoreBands.
	Histogram []BandCount `json:"histogram,omitempty"`

	// === Execution ===

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the error that stopped the build, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as a string, for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewBuild creates a Build with the given name and start time set to now.
func NewBuild(name string) *Build {
	return &Build{
		Name:           name,
		DateBuilt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// EntryCount returns the number of entries that will be written.
func (b *Build) EntryCount() int {
	if b.Scaled != nil {
		return len(b.Scaled)
	}
	return len(b.Entries)
}

// Failed reports whether the build stopped with an error.
func (b *Build) Failed() bool {
	return b.Error != nil || b.ErrorMessage != ""
}

// SetError records err as the reason the build stopped.
func (b *Build) SetError(err error) {
	b.Error = err
	if err != nil {
		b.ErrorMessage = err.Error()
	}
}

// Document returns the intermediate document for the scaled entries.
func (b *Build) Document() *Document {
	return &Document{
		Header:    b.Header,
		HasHeader: b.HasHeader,
		Entries:   b.Scaled,
	}
}
