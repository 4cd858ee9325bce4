package main

import (
	"fmt"

	"github.com/fenilsonani/ftgs/internal/shard"
	"github.com/fenilsonani/ftgs/internal/term"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "inspect <shard-dir...>",
		Short: "Print a field's record count and identity fingerprint for one or more shards",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if field == "" {
				return fmt.Errorf("--field is required")
			}

			for _, dir := range args {
				h := shard.Open(dir)

				fp, err := h.Fingerprint(field)
				if err != nil {
					h.Close()
					return fmt.Errorf("fingerprint shard %s: %w", h.Name(), err)
				}

				termView, err := h.TermView(field)
				if err != nil {
					h.Close()
					return fmt.Errorf("term view shard %s: %w", h.Name(), err)
				}

				n, err := countRecords(termView.Bytes())
				if err != nil {
					h.Close()
					return fmt.Errorf("count records shard %s: %w", h.Name(), err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s\tfield=%s\trecords=%d\tfingerprint=%016x\n", h.Name(), field, n, fp)
				h.Close()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "field name to inspect")
	return cmd
}

func countRecords(data []byte) (int, error) {
	it := term.NewIntIterator(data)
	n := 0
	for {
		_, ok, err := it.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}
