package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/freqdict/internal/freq"
	"github.com/nao1215/freqdict/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a summary of the build in Markdown format.
func (w *MarkdownWriter) Write(build *model.Build) (int, error) {
	return w.WriteSummary(model.NewSummary(build))
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStatistics(md, summary)
	w.writeTopWords(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the dictionary properties table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.Summary) {
	md.H1("Frequency Dictionary: " + s.Name)
	md.PlainText("")

	rows := [][]string{
		{"Header", "`" + headerText(s) + "`"},
	}
	if !s.Date.IsZero() {
		rows = append(rows,
			[]string{"Build Date", s.Date.Format("2006-01-02 15:04:05 MST")},
			[]string{"Duration", s.Duration.String()},
		)
	}
	rows = appendPathRow(rows, "Frequency", s.FrequencyPath)
	rows = appendPathRow(rows, "Spellchecking", s.SpellcheckingPath)
	rows = appendPathRow(rows, "Intermediate", s.IntermediatePath)
	rows = appendPathRow(rows, "Output", s.OutputPath)
	rows = appendPathRow(rows, "SHA3-256", s.Checksum)
	rows = append(rows, []string{"Status", w.statusText(s)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func appendPathRow(rows [][]string, label, value string) [][]string {
	if value == "" {
		return rows
	}
	return append(rows, []string{label, "`" + value + "`"})
}

// statusText decorates the status for Markdown output.
func (w *MarkdownWriter) statusText(s *model.Summary) string {
	switch {
	case s.Failed():
		return "❌ Error - " + s.Error
	case s.Compiled:
		return "✅ Compiled"
	default:
		return statusText(s)
	}
}

// writeStatistics writes the statistics table, the score-band chart and
// an alert for suspicious scores.
func (w *MarkdownWriter) writeStatistics(md *markdown.Markdown, s *model.Summary) {
	md.H2("Statistics")
	md.PlainText("")

	rows := [][]string{
		{"Entries", strconv.Itoa(s.Entries)},
	}
	if s.Total > 0 {
		rows = append(rows, []string{"Total count", strconv.FormatUint(s.Total, 10)})
	}
	if s.Entries > 0 {
		rows = append(rows, []string{"Score range", strconv.Itoa(s.MinScore) + ".." + strconv.Itoa(s.MaxScore)})
	}
	if s.LinesRead > 0 {
		rows = append(rows,
			[]string{"Lines read", strconv.Itoa(s.LinesRead)},
			[]string{"Skipped (empty word)", strconv.Itoa(s.SkippedEmpty)},
			[]string{"Skipped (not in word list)", strconv.Itoa(s.SkippedUnknown)},
		)
	}
	rows = append(rows,
		[]string{"Clamped", strconv.Itoa(s.Clamped)},
		[]string{"Duplicates", strconv.Itoa(s.Duplicates)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Entries > 0 {
		w.writePieChart(md, s)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of the score bands.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Score Distribution"),
		piechart.WithShowData(true),
	)

	for _, bc := range s.Histogram {
		if bc.Count > 0 {
			chart.LabelAndIntValue(bc.Label, uint64(bc.Count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert describing the most important problem.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.Summary) {
	switch {
	case s.Failed():
		md.Cautionf("The build failed: %s", s.Error)
	case s.OutOfRange() > 0:
		md.Warningf(
			"%d score(s) lie outside %d..%d. Rebuild with --clamp to cap them.",
			s.OutOfRange(), freq.MinScore, freq.MaxValue,
		)
	case s.Duplicates > 0:
		md.Importantf(
			"%d word(s) appear more than once; the compiler keeps only one score per word.",
			s.Duplicates,
		)
	case s.Clamped > 0:
		md.Note("Some scores were clamped into the nominal range.")
	case s.Entries == 0:
		md.Note("The dictionary is empty.")
	default:
		md.Tip("All scores lie within the nominal range.")
	}
	md.PlainText("")
}

// writeTopWords writes the highest-scored words.
func (w *MarkdownWriter) writeTopWords(md *markdown.Markdown, s *model.Summary) {
	if len(s.TopWords) == 0 {
		return
	}

	md.H2("Most Frequent Words")
	md.PlainText("")

	rows := make([][]string, len(s.TopWords))
	for i, e := range s.TopWords {
		rows[i] = []string{strconv.Itoa(i + 1), "`" + e.Word + "`", strconv.Itoa(e.Score)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Word", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by freqdict*")
}
