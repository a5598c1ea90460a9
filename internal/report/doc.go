// Package report renders build and document summaries.
//
// Writers:
//   - SimpleWriter: plain text for terminal display
//   - MarkdownWriter: Markdown with a score-band pie chart
//   - JSONWriter: structured JSON for tool integration
//
// All writers implement Writer and accept either a *model.Build or a
// ready-made *model.Summary.
package report
