package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ftgs",
		Short: "Shard-local field/term/group/stat pipeline tools",
		Long: `ftgs drives the packed-table and term-splitter primitives that back
the FTGS (Field-Term-Group-Stat) query path directly from the command line,
for inspecting shard layouts and exercising the split/merge pipeline by hand.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(
		newSplitCommand(),
		newMergeCommand(),
		newInspectCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
