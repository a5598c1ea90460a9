package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/freqdict/internal/config"
)

// NewRootCmd creates the root command for freqdict.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freqdict",
		Short: "Build frequency dictionaries for the Android keyboard",
		Long: `freqdict converts a word-frequency corpus into the intermediate text
format consumed by the Android dicttool, optionally keeping only the
words of a spell-checking word list, and runs dicttool to compile the
binary dictionary.

Raw counts are scaled logarithmically into the range 16..254.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: text or json")

	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
