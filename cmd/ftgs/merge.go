package main

import (
	"fmt"

	"github.com/fenilsonani/ftgs/internal/shard"
	"github.com/fenilsonani/ftgs/internal/split"
	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/fenilsonani/ftgs/internal/termseq"
	"github.com/spf13/cobra"
)

func newMergeCommand() *cobra.Command {
	var (
		field    string
		bucket   int
		isString bool
	)

	cmd := &cobra.Command{
		Use:   "merge <split-dir> <shard-name...>",
		Short: "Merge one bucket's split files across shards and print term-sequence runs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			splitDir, shardNames := args[0], args[1:]
			if field == "" {
				return fmt.Errorf("--field is required")
			}

			kind := term.KindInt
			if isString {
				kind = term.KindString
			}

			var readers []*split.Reader
			var inputs []split.MergeInput
			defer func() {
				for _, r := range readers {
					r.Close()
				}
			}()

			for i, name := range shardNames {
				path := shard.SplitFilename(splitDir, name, field, bucket)
				r, err := split.OpenReader(path, kind)
				if err != nil {
					return fmt.Errorf("open bucket %d for shard %s: %w", bucket, name, err)
				}
				readers = append(readers, r)
				inputs = append(inputs, split.MergeInput{ShardIndex: i, Reader: r})
			}

			m := split.NewMerge(kind, inputs)
			seq := termseq.New(m, kind)

			for {
				run, ok, err := seq.Next()
				if err != nil {
					return fmt.Errorf("merge: %w", err)
				}
				if !ok {
					break
				}
				printRun(cmd, run)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "field name to merge")
	cmd.Flags().IntVar(&bucket, "bucket", 0, "bucket index to merge")
	cmd.Flags().BoolVar(&isString, "string", false, "treat the field as string-keyed rather than integer-keyed")

	return cmd
}

func printRun(cmd *cobra.Command, run termseq.Run) {
	id := fmt.Sprintf("%d", run.IntID)
	if run.Kind == term.KindString {
		id = string(run.StrID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d contributions\n", id, len(run.Contributions))
	for _, c := range run.Contributions {
		fmt.Fprintf(cmd.OutOrStdout(), "  shard=%d doc_offset=%d doc_freq=%d\n", c.ShardIndex, c.DocOffset, c.DocFreq)
	}
}
