package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatpack/cpk/internal/detect"
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Guess the source platform from a filename",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, ok := detect.Source(args[0])
			if !ok {
				return fmt.Errorf("no source matches %q", args[0])
			}
			fmt.Println(src)
			return nil
		},
	}
}
