package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatpack/cpk/internal/config"
	"github.com/chatpack/cpk/internal/convert"
	"github.com/chatpack/cpk/internal/history"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := history.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close()

			entries, err := db.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(os.Stderr, "No conversions recorded yet.")
				return nil
			}

			for _, e := range entries {
				flags := ""
				if e.Timestamps {
					flags += " +ts"
				}
				if e.Replays {
					flags += " +replies"
				}
				fmt.Printf("%s  %-9s %-5s %6d msgs  %10s -> %-10s %s%s\n",
					e.CreatedAt,
					e.Source,
					e.Format,
					e.Messages,
					convert.FmtBytes(int64(e.InputBytes)),
					convert.FmtBytes(int64(e.OutputBytes)),
					e.InputName,
					flags,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries")

	return cmd
}
