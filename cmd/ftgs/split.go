package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fenilsonani/ftgs/internal/shard"
	"github.com/fenilsonani/ftgs/internal/split"
	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/spf13/cobra"
)

func newSplitCommand() *cobra.Command {
	var (
		field    string
		buckets  int
		isString bool
	)

	cmd := &cobra.Command{
		Use:   "split <shard-dir> <output-dir>",
		Short: "Hash-partition one field's term index into N split files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shardDir, outputDir := args[0], args[1]
			if field == "" {
				return fmt.Errorf("--field is required")
			}

			h := shard.Open(shardDir)
			defer h.Close()

			termView, err := h.TermView(field)
			if err != nil {
				return fmt.Errorf("open term view: %w", err)
			}

			var it term.Iterator
			if isString {
				it = term.NewStringIterator(termView.Bytes())
			} else {
				it = term.NewIntIterator(termView.Bytes())
			}

			if err := os.MkdirAll(filepath.Join(outputDir, field), 0o755); err != nil {
				return fmt.Errorf("prepare output dir: %w", err)
			}

			s, err := split.NewSplitter(buckets, func(k int) string {
				return h.SplitFilename(outputDir, field, k)
			})
			if err != nil {
				return fmt.Errorf("new splitter: %w", err)
			}
			s.WithCleanupOnError()

			if err := s.Run(it); err != nil {
				return fmt.Errorf("split: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d split files for shard %s field %s\n", buckets, h.Name(), field)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "field name to split")
	cmd.Flags().IntVar(&buckets, "buckets", 4, "number of output buckets")
	cmd.Flags().BoolVar(&isString, "string", false, "treat the field as string-keyed rather than integer-keyed")

	return cmd
}
