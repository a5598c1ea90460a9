package intermediate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/freqdict/internal/model"
)

// ErrMalformedLine is returned when an entry line does not follow the
// " word=<word>,f=<score>" template.
var ErrMalformedLine = errors.New("malformed intermediate line")

// maxLineSize bounds a single line; headers and words are short.
const maxLineSize = 1024 * 1024

// Read parses a document written by Write. The first line is treated
// as the header unless it is an entry line.
//
// Because words are not escaped, the score is taken from the last ",f="
// on the line, so words containing ",f=" survive a round trip.
func Read(r io.Reader) (*model.Document, error) {
	doc := &model.Document{Entries: make([]model.ScaledEntry, 0)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if lineNo == 1 && !strings.HasPrefix(line, entryPrefix) {
			doc.Header = line
			doc.HasHeader = true
			continue
		}

		entry, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		doc.Entries = append(doc.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read intermediate document: %w", err)
	}

	return doc, nil
}

// ReadFile reads the document stored at path.
func ReadFile(path string) (*model.Document, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open intermediate file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// parseEntry parses a single " word=<word>,f=<score>" line.
func parseEntry(line string) (model.ScaledEntry, error) {
	rest, ok := strings.CutPrefix(line, entryPrefix)
	if !ok {
		return model.ScaledEntry{}, fmt.Errorf("%w: missing %q prefix: %q", ErrMalformedLine, entryPrefix, line)
	}

	idx := strings.LastIndex(rest, scoreSeparator)
	if idx < 0 {
		return model.ScaledEntry{}, fmt.Errorf("%w: missing %q: %q", ErrMalformedLine, scoreSeparator, line)
	}

	word := rest[:idx]
	score, err := strconv.Atoi(rest[idx+len(scoreSeparator):])
	if err != nil {
		return model.ScaledEntry{}, fmt.Errorf("%w: invalid score: %q", ErrMalformedLine, line)
	}

	return model.ScaledEntry{Word: word, Score: score}, nil
}
