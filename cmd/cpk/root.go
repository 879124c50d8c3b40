package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chatpack/cpk/internal/config"
	"github.com/chatpack/cpk/internal/engine"
	"github.com/chatpack/cpk/internal/history"
	"github.com/chatpack/cpk/internal/tui"
)

// runRoot launches the interactive TUI when stdout is a terminal;
// otherwise it points the user at the pipe-friendly subcommands.
func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	hist, err := history.Open(cfg.DBPath)
	if err != nil {
		log.Warn("history unavailable", "error", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	ldr := engine.NewLoader(engine.NewProc(cfg.EnginePath))

	initialPath := ""
	if len(args) == 1 {
		initialPath = args[0]
	}
	return tui.Run(ldr, hist, cfg.DefaultFormat, initialPath)
}
