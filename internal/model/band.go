package model

import "fmt"

// ScoreBand is an inclusive range of scores used to summarize the
// distribution of a build in reports.
type ScoreBand struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// String returns the band as "low-high".
func (b ScoreBand) String() string {
	return fmt.Sprintf("%d-%d", b.Low, b.High)
}

// Contains reports whether score falls inside the band.
func (b ScoreBand) Contains(score int) bool {
	return score >= b.Low && score <= b.High
}

// ScoreBands are the report bands covering the nominal score range 16..254.
var ScoreBands = []ScoreBand{
	{Low: 16, High: 63},
	{Low: 64, High: 127},
	{Low: 128, High: 191},
	{Low: 192, High: 254},
}

// OutOfRangeLabel labels scores outside every band in ScoreBands.
const OutOfRangeLabel = "out of range"

// BandCount is the number of scores that fell into one band.
type BandCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram counts entries per ScoreBand. A final "out of range" bucket
// is appended only when some score lies outside every band.
func Histogram(entries []ScaledEntry) []BandCount {
	counts := make([]BandCount, len(ScoreBands))
	for i, band := range ScoreBands {
		counts[i].Label = band.String()
	}

	outOfRange := 0
	for _, e := range entries {
		matched := false
		for i, band := range ScoreBands {
			if band.Contains(e.Score) {
				counts[i].Count++
				matched = true
				break
			}
		}
		if !matched {
			outOfRange++
		}
	}

	if outOfRange > 0 {
		counts = append(counts, BandCount{Label: OutOfRangeLabel, Count: outOfRange})
	}
	return counts
}
