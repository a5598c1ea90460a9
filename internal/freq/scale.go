package freq

import (
	"fmt"
	"math"

	"github.com/nao1215/freqdict/internal/model"
)

// Score range of the dictionary format.
const (
	// Offset is subtracted from MaxValue to get the width of the range
	// and added back (plus one) to every score.
	Offset = 15

	// MaxValue is the nominal highest score.
	MaxValue = 254

	// MinScore is the lowest score a positive count can get.
	MinScore = Offset + 1
)

// ScaleStats summarizes a scaling pass.
type ScaleStats struct {
	// Total is the sum of all raw counts.
	Total uint64

	// Min and Max are the extremes of the produced scores.
	// Both are zero when there are no entries.
	Min int
	Max int

	// Clamped counts scores forced into [MinScore, MaxValue].
	Clamped int
}

// Scaler maps raw counts onto scores.
type Scaler struct {
	// clamp forces scores into [MinScore, MaxValue].
	clamp bool
}

// ScalerOption configures a Scaler.
type ScalerOption func(*Scaler)

// WithClamp makes the Scaler clamp scores into [MinScore, MaxValue].
// Without it, a word holding (nearly) the whole corpus mass scores 255.
func WithClamp(clamp bool) ScalerOption {
	return func(s *Scaler) {
		s.clamp = clamp
	}
}

// NewScaler creates a Scaler. By default scores are not clamped.
func NewScaler(opts ...ScalerOption) *Scaler {
	s := &Scaler{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scale scores every entry relative to the sum of all counts.
// The output has the same order as entries. It fails with ErrDomain
// when the total is zero or one, including when there are no entries,
// or when an entry has a zero count.
func (s *Scaler) Scale(entries []model.FrequencyEntry) ([]model.ScaledEntry, ScaleStats, error) {
	var stats ScaleStats

	total, err := Total(entries)
	if err != nil {
		return nil, stats, err
	}
	stats.Total = total
	if total <= 1 {
		return nil, stats, fmt.Errorf("%w: logarithm base undefined for corpus total %d", ErrDomain, total)
	}

	scaled := make([]model.ScaledEntry, len(entries))
	for i, e := range entries {
		score, err := Score(e.Count, total)
		if err != nil {
			return nil, stats, fmt.Errorf("word %q: %w", e.Word, err)
		}

		if s.clamp {
			if c := clampScore(score); c != score {
				score = c
				stats.Clamped++
			}
		}

		if i == 0 || score < stats.Min {
			stats.Min = score
		}
		if i == 0 || score > stats.Max {
			stats.Max = score
		}

		scaled[i] = model.ScaledEntry{Word: e.Word, Score: score}
	}

	return scaled, stats, nil
}

// Total returns the sum of all counts. It fails with ErrDomain if the
// sum overflows uint64.
func Total(entries []model.FrequencyEntry) (uint64, error) {
	var total uint64
	for _, e := range entries {
		if total > math.MaxUint64-e.Count {
			return 0, fmt.Errorf("%w: corpus total overflows", ErrDomain)
		}
		total += e.Count
	}
	return total, nil
}

// Score maps a single count onto the score range:
//
//	round(log(count) / log(total) * (MaxValue - Offset)) + Offset + 1
func Score(count, total uint64) (int, error) {
	if total <= 1 {
		return 0, fmt.Errorf("%w: logarithm base undefined for corpus total %d", ErrDomain, total)
	}
	if count == 0 {
		return 0, fmt.Errorf("%w: logarithm of zero count", ErrDomain)
	}

	logged := math.Log(float64(count)) / math.Log(float64(total))
	return int(math.Round(logged*float64(MaxValue-Offset))) + Offset + 1, nil
}

func clampScore(score int) int {
	switch {
	case score > MaxValue:
		return MaxValue
	case score < MinScore:
		return MinScore
	default:
		return score
	}
}
