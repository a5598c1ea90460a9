package freq

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/freqdict/internal/model"
)

// ParseResult holds the entries kept from a corpus and the counts of
// lines that were skipped.
type ParseResult struct {
	// Entries are the kept entries in corpus order.
	Entries []model.FrequencyEntry

	// LinesRead is the number of lines examined.
	LinesRead int

	// SkippedEmpty counts lines whose word was empty.
	SkippedEmpty int

	// SkippedUnknown counts lines whose word the Filter rejected.
	SkippedUnknown int
}

// ParseCorpus parses corpus text and keeps the lines accepted by filter.
//
// Each line is "<word> <count>". The word is everything before the first
// space. Lines with an empty word or a word the filter rejects are
// skipped before the count is looked at, so an unknown word with a
// malformed count is not an error. For kept lines a missing or
// non-numeric count returns a *LineError. A trailing "\r" is ignored and
// anything after the count is ignored.
func ParseCorpus(text string, filter Filter) (*ParseResult, error) {
	if filter == nil {
		filter = NonEmpty()
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	result := &ParseResult{
		Entries: make([]model.FrequencyEntry, 0, len(lines)),
	}

	for i, raw := range lines {
		result.LinesRead++
		line := strings.TrimSuffix(raw, "\r")

		word, rest, found := strings.Cut(line, " ")
		if word == "" {
			result.SkippedEmpty++
			continue
		}
		if !filter.Accept(word) {
			result.SkippedUnknown++
			continue
		}

		if !found {
			return nil, &LineError{Line: i + 1, Text: line, Reason: "missing count"}
		}

		countText, _, _ := strings.Cut(rest, " ")
		count, err := strconv.ParseUint(countText, 10, 64)
		if err != nil {
			return nil, &LineError{
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("invalid count %q", countText),
				Err:    err,
			}
		}

		result.Entries = append(result.Entries, model.FrequencyEntry{Word: word, Count: count})
	}

	return result, nil
}

// ReadCorpus reads the whole of r and parses it with ParseCorpus.
func ReadCorpus(r io.Reader, filter Filter) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return ParseCorpus(string(data), filter)
}
