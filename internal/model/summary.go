package model

import (
	"sort"
	"time"
)

// TopWordsLimit is how many of the highest-scored words a Summary keeps.
const TopWordsLimit = 10

// Summary is a condensed view of a build or an intermediate document,
// used by the report writers.
type Summary struct {
	// Name identifies the dictionary or the inspected file.
	Name string `json:"name"`

	// Date is when the build ran. Zero for inspected documents.
	Date time.Time `json:"date,omitzero"`

	// Duration is how long the build took. Zero for inspected documents.
	Duration time.Duration `json:"duration,omitempty"`

	// Header is the document header line.
	Header string `json:"header,omitempty"`

	// HasHeader reports whether the document has a header line.
	HasHeader bool `json:"has_header"`

	// === Files ===

	FrequencyPath     string `json:"frequency_path,omitempty"`
	SpellcheckingPath string `json:"spellchecking_path,omitempty"`
	IntermediatePath  string `json:"intermediate_path,omitempty"`
	OutputPath        string `json:"output_path,omitempty"`
	Checksum          string `json:"checksum,omitempty"`
	Compiled          bool   `json:"compiled"`

	// === Statistics ===

	// Entries is the number of words in the document.
	Entries int `json:"entries"`

	// LinesRead, SkippedEmpty and SkippedUnknown are only known for builds.
	LinesRead      int `json:"lines_read,omitempty"`
	SkippedEmpty   int `json:"skipped_empty,omitempty"`
	SkippedUnknown int `json:"skipped_unknown,omitempty"`

	// Total is the sum of raw counts. Only known for builds.
	Total uint64 `json:"total,omitempty"`

	MinScore int `json:"min_score"`
	MaxScore int `json:"max_score"`
	Clamped  int `json:"clamped,omitempty"`

	// Duplicates counts words that appear more than once.
	Duplicates int `json:"duplicates"`

	// Histogram counts scores per band.
	Histogram []BandCount `json:"histogram"`

	// TopWords are the highest-scored words, ties kept in document order.
	TopWords []ScaledEntry `json:"top_words,omitempty"`

	// PerformedSteps lists the build steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains the failure message if the build failed.
	Error string `json:"error,omitempty"`
}

// NewSummary creates a Summary of a build.
func NewSummary(b *Build) *Summary {
	s := &Summary{
		Name:              b.Name,
		Date:              b.DateBuilt,
		Duration:          b.Duration,
		Header:            b.Header,
		HasHeader:         b.HasHeader,
		FrequencyPath:     b.FrequencyPath,
		SpellcheckingPath: b.SpellcheckingPath,
		IntermediatePath:  b.IntermediatePath,
		OutputPath:        b.OutputPath,
		Checksum:          b.Checksum,
		Compiled:          b.Compiled,
		Entries:           b.EntryCount(),
		LinesRead:         b.LinesRead,
		SkippedEmpty:      b.SkippedEmpty,
		SkippedUnknown:    b.SkippedUnknown,
		Total:             b.Total,
		MinScore:          b.MinScore,
		MaxScore:          b.MaxScore,
		Clamped:           b.Clamped,
		Histogram:         b.Histogram,
		PerformedSteps:    b.PerformedSteps,
		Error:             b.ErrorMessage,
	}

	if b.Scaled != nil {
		s.Duplicates = countDuplicates(b.Scaled)
		s.TopWords = topWords(b.Scaled, TopWordsLimit)
		if s.Histogram == nil {
			s.Histogram = Histogram(b.Scaled)
		}
	}

	return s
}

// NewDocumentSummary creates a Summary of an intermediate document.
func NewDocumentSummary(name string, doc *Document) *Summary {
	s := &Summary{
		Name:       name,
		Header:     doc.Header,
		HasHeader:  doc.HasHeader,
		Entries:    len(doc.Entries),
		Duplicates: countDuplicates(doc.Entries),
		Histogram:  Histogram(doc.Entries),
		TopWords:   topWords(doc.Entries, TopWordsLimit),
	}

	for i, e := range doc.Entries {
		if i == 0 || e.Score < s.MinScore {
			s.MinScore = e.Score
		}
		if i == 0 || e.Score > s.MaxScore {
			s.MaxScore = e.Score
		}
	}

	return s
}

// Failed reports whether the summarized build failed.
func (s *Summary) Failed() bool {
	return s.Error != ""
}

// OutOfRange returns the number of scores outside every ScoreBand.
func (s *Summary) OutOfRange() int {
	for _, bc := range s.Histogram {
		if bc.Label == OutOfRangeLabel {
			return bc.Count
		}
	}
	return 0
}

func countDuplicates(entries []ScaledEntry) int {
	seen := make(map[string]struct{}, len(entries))
	dups := 0
	for _, e := range entries {
		if _, ok := seen[e.Word]; ok {
			dups++
			continue
		}
		seen[e.Word] = struct{}{}
	}
	return dups
}

func topWords(entries []ScaledEntry, n int) []ScaledEntry {
	if len(entries) == 0 {
		return nil
	}
	sorted := make([]ScaledEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
