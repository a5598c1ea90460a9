package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/freqdict/internal/intermediate"
	"github.com/nao1215/freqdict/internal/model"
	"github.com/nao1215/freqdict/internal/report"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <intermediate-file>",
		Short: "Summarize an intermediate file",
		Long: `Inspect reads an intermediate file back and prints its header, the
number of words, the score distribution and the most frequent words.

It also reports scores outside 16..254 and words that appear more than
once, both of which dicttool handles poorly.

Examples:
  freqdict inspect intermediate.txt
  freqdict inspect --markdown out/en_US.intermediate.txt > en_US.md`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")

	return cmd
}

// errConflictingFormats is returned when both --json and --markdown are set.
var errConflictingFormats = errors.New("--json and --markdown are mutually exclusive")

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	format := report.FormatText
	switch {
	case jsonOutput && markdownOutput:
		return errConflictingFormats
	case jsonOutput:
		format = report.FormatJSON
	case markdownOutput:
		format = report.FormatMarkdown
	}

	return runInspect(cmd.OutOrStdout(), args[0], format)
}

// runInspect writes a summary of the intermediate file at path.
func runInspect(out io.Writer, path, format string) error {
	doc, err := intermediate.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	summary := model.NewDocumentSummary(filepath.Base(path), doc)
	summary.IntermediatePath = path
	if summary.Checksum, err = intermediate.Checksum(doc); err != nil {
		return err
	}

	w, err := report.New(format, out, getVersion())
	if err != nil {
		return err
	}
	_, err = w.WriteSummary(summary)
	return err
}
