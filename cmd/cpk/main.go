package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "cpk [file]",
		Short:   "Convert chat exports into compact LLM-ready files",
		Long: `cpk is a front-end for the chatpack conversion engine. It turns
Telegram, WhatsApp, Instagram and Discord chat exports into compact
CSV, JSON or JSONL suitable for LLM and RAG pipelines.

Run without arguments on a terminal to get the interactive UI, or use
'cpk convert' for scripted/piped use.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: runRoot,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
