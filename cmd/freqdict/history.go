package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/freqdict/internal/config"
	"github.com/nao1215/freqdict/internal/database"
	"github.com/nao1215/freqdict/internal/model"
	"github.com/nao1215/freqdict/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [dictionary]",
		Short: "Show recorded dictionary builds",
		Long: `History lists the builds recorded in the history database, newest first.

Each record shows the number of words, the score range and the SHA3-256
checksum of the intermediate file, so unchanged rebuilds are easy to spot.

Examples:
  # List all builds
  freqdict history

  # List builds of one dictionary
  freqdict history en_US

  # Show the full summary of a build
  freqdict history --id 12

  # List the dictionaries that have been built
  freqdict history --list-dictionaries`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().Int64P("id", "i", 0,
		"Show the summary of the build with this ID")
	cmd.Flags().BoolP("list-dictionaries", "L", false,
		"List the names of all built dictionaries")

	return cmd
}

// historyOptions holds the flags of the history command.
type historyOptions struct {
	name             string
	jsonOutput       bool
	id               int64
	listDictionaries bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	var opts historyOptions
	var err error

	if len(args) > 0 {
		opts.name = args[0]
	}
	if opts.jsonOutput, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.id, err = cmd.Flags().GetInt64("id"); err != nil {
		return err
	}
	if opts.listDictionaries, err = cmd.Flags().GetBool("list-dictionaries"); err != nil {
		return err
	}

	return runHistory(cmd.Context(), cmd.OutOrStdout(), config.XDGDataDir(), opts)
}

// runHistory prints the history stored in dbDir.
func runHistory(ctx context.Context, out io.Writer, dbDir string, opts historyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No builds recorded yet.")
		fmt.Fprintln(out, "\nUse 'freqdict build' to build a dictionary.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	switch {
	case opts.listDictionaries:
		return listDictionaries(ctx, out, db, opts.jsonOutput)
	case opts.id > 0:
		return showBuild(ctx, out, db, opts.id, opts.jsonOutput)
	default:
		return listHistory(ctx, out, db, opts.name, opts.jsonOutput)
	}
}

// listDictionaries prints the names of all built dictionaries.
func listDictionaries(ctx context.Context, out io.Writer, db *database.HistoryDB, jsonOutput bool) error {
	names, err := db.ListDictionaries(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(out, names)
	}

	if len(names) == 0 {
		fmt.Fprintln(out, "No builds recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "Built dictionaries (%d):\n\n", len(names))
	for _, name := range names {
		fmt.Fprintf(out, "  • %s\n", name)
	}
	fmt.Fprintln(out, "\nUse 'freqdict history <name>' to see the builds of a dictionary.")
	return nil
}

// showBuild prints the summary of one recorded build.
func showBuild(ctx context.Context, out io.Writer, db *database.HistoryDB, id int64, jsonOutput bool) error {
	build, err := db.GetBuildByID(ctx, id)
	if err != nil {
		return err
	}
	if build == nil {
		return fmt.Errorf("no build with ID %d", id)
	}

	var w report.Writer = report.NewSimpleWriter(out, report.WithVerbose(true))
	if jsonOutput {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	_, err = w.WriteSummary(model.NewSummary(build))
	return err
}

// listHistory prints build records, optionally only those of name.
func listHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, name string, jsonOutput bool) error {
	records, err := db.History(ctx, name)
	if err != nil {
		return err
	}

	if jsonOutput {
		if records == nil {
			records = []database.BuildRecord{}
		}
		return writeJSON(out, records)
	}

	if len(records) == 0 {
		if name != "" {
			fmt.Fprintf(out, "No builds recorded for %s\n", name)
		} else {
			fmt.Fprintln(out, "No builds recorded yet.")
		}
		return nil
	}

	title := "Build history"
	if name != "" {
		title += " for " + name
	}
	fmt.Fprintf(out, "%s (%d builds):\n\n", title, len(records))
	fmt.Fprintf(out, "  %-6s  %-19s  %-12s  %8s  %-8s  %-9s  %s\n",
		"ID", "Date", "Dictionary", "Entries", "Scores", "Status", "SHA3-256")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, rec := range records {
		fmt.Fprintf(out, "  %-6d  %-19s  %-12s  %8d  %-8s  %-9s  %s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Name,
			rec.Entries,
			fmt.Sprintf("%d..%d", rec.MinScore, rec.MaxScore),
			recordStatus(rec),
			shortChecksum(rec.Checksum),
		)
	}

	fmt.Fprintln(out, "\nUse 'freqdict history --id <ID>' to see the full summary of a build.")
	return nil
}

// recordStatus describes the outcome of a recorded build.
func recordStatus(rec database.BuildRecord) string {
	switch {
	case rec.Error != "":
		return "failed"
	case rec.Compiled:
		return "compiled"
	default:
		return "written"
	}
}

// shortChecksum abbreviates a hex digest for tables.
func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	if sum == "" {
		return "-"
	}
	return sum
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
