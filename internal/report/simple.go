package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/freqdict/internal/model"
)

// rule is the width of section separators.
const rule = 70

// SimpleWriter outputs human-readable text summaries.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose adds file paths, skipped line counts and performed steps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a summary of the build in human-readable format.
func (w *SimpleWriter) Write(build *model.Build) (int, error) {
	return w.WriteSummary(model.NewSummary(build))
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeStatistics(&sb, summary)
	w.writeHistogram(&sb, summary)
	w.writeTopWords(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", rule))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", rule))
	sb.WriteString("\n\n")
}

// writeHeader writes the dictionary name, date and status.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", rule))
	sb.WriteString("\n")
	sb.WriteString("                       FREQUENCY DICTIONARY\n")
	sb.WriteString(strings.Repeat("=", rule))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Dictionary:     %s\n", s.Name)
	if !s.Date.IsZero() {
		fmt.Fprintf(sb, "Build Date:     %s\n", s.Date.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(sb, "Duration:       %s\n", s.Duration)
	}
	fmt.Fprintf(sb, "Header:         %s\n", headerText(s))
	fmt.Fprintf(sb, "Status:         %s\n", statusText(s))

	if w.verbose {
		writePath(sb, "Frequency:", s.FrequencyPath)
		writePath(sb, "Spellchecking:", s.SpellcheckingPath)
		writePath(sb, "Intermediate:", s.IntermediatePath)
		writePath(sb, "Output:", s.OutputPath)
		writePath(sb, "SHA3-256:", s.Checksum)
		if len(s.PerformedSteps) > 0 {
			fmt.Fprintf(sb, "%-16s%s\n", "Steps:", strings.Join(s.PerformedSteps, ", "))
		}
	}

	sb.WriteString("\n")
}

func writePath(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%-16s%s\n", label, value)
}

// writeStatistics writes the entry counts and score range.
func (w *SimpleWriter) writeStatistics(sb *strings.Builder, s *model.Summary) {
	section(sb, "STATISTICS")

	fmt.Fprintf(sb, "  Entries:     %d\n", s.Entries)
	if s.Total > 0 {
		fmt.Fprintf(sb, "  Total count: %d\n", s.Total)
	}
	if s.Entries > 0 {
		fmt.Fprintf(sb, "  Score range: %d..%d\n", s.MinScore, s.MaxScore)
	}
	if s.Clamped > 0 || w.showEmpty {
		fmt.Fprintf(sb, "  Clamped:     %d\n", s.Clamped)
	}
	if s.Duplicates > 0 || w.showEmpty {
		fmt.Fprintf(sb, "  Duplicates:  %d\n", s.Duplicates)
	}
	if w.verbose && s.LinesRead > 0 {
		fmt.Fprintf(sb, "  Lines read:  %d\n", s.LinesRead)
		fmt.Fprintf(sb, "  Skipped:     %d empty, %d not in word list\n", s.SkippedEmpty, s.SkippedUnknown)
	}
	sb.WriteString("\n")
}

// writeHistogram writes the number of scores per band.
func (w *SimpleWriter) writeHistogram(sb *strings.Builder, s *model.Summary) {
	if s.Entries == 0 && !w.showEmpty {
		return
	}

	section(sb, "SCORE DISTRIBUTION")

	for _, bc := range s.Histogram {
		if bc.Count == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %-13s %d\n", bc.Label+":", bc.Count)
	}
	sb.WriteString("\n")
}

// writeTopWords writes the highest-scored words.
func (w *SimpleWriter) writeTopWords(sb *strings.Builder, s *model.Summary) {
	if len(s.TopWords) == 0 {
		return
	}

	section(sb, "MOST FREQUENT WORDS")

	for _, e := range s.TopWords {
		fmt.Fprintf(sb, "  %3d  %s\n", e.Score, e.Word)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", rule))
	sb.WriteString("\n")
}
