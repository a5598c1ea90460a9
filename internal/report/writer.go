package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/freqdict/internal/model"
)

// Output formats accepted by New.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ErrUnknownFormat is returned by New for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs a summary of the build.
	// Returns the number of bytes written and any error encountered.
	Write(build *model.Build) (int, error)

	// WriteSummary outputs an existing summary.
	WriteSummary(summary *model.Summary) (int, error)
}

// New returns the Writer for format.
func New(format string, output io.Writer, version string) (Writer, error) {
	switch format {
	case FormatText:
		return NewSimpleWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// statusText describes the outcome of a summarized build.
func statusText(s *model.Summary) string {
	switch {
	case s.Failed():
		return "ERROR - " + s.Error
	case s.Date.IsZero():
		return "Inspected"
	case s.Compiled:
		return "Compiled"
	default:
		return "Intermediate only"
	}
}

// headerText renders the document header for display.
func headerText(s *model.Summary) string {
	if !s.HasHeader {
		return "(none)"
	}
	if s.Header == "" {
		return "(empty line)"
	}
	return s.Header
}
