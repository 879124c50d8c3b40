package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatpack/cpk/internal/config"
	"github.com/chatpack/cpk/internal/engine"
	"github.com/chatpack/cpk/internal/history"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, engine, and history DB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if cfg.EnginePath == "" {
				fmt.Printf("  Engine path:    (search PATH for %s)\n", engine.DefaultBinary)
			} else {
				fmt.Printf("  Engine path:    %s\n", cfg.EnginePath)
			}
			fmt.Printf("  History DB:     %s\n", cfg.DBPath)
			fmt.Printf("  Default format: %s\n", cfg.DefaultFormat)

			fmt.Println("\n=== Engine ===")
			mod := engine.NewProc(cfg.EnginePath)
			if err := mod.Init(cmd.Context()); err != nil {
				fmt.Printf("  Status: FAILED (%v)\n", err)
			} else {
				fmt.Printf("  Version: %s\n", mod.Version())
				fmt.Println("  Status: OK")
			}

			fmt.Println("\n=== History ===")
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first conversion)")
				return nil
			}
			db, err := history.Open(cfg.DBPath)
			if err != nil {
				fmt.Printf("  Status: FAILED (%v)\n", err)
				return nil
			}
			defer db.Close()

			n, err := db.Count()
			if err != nil {
				return fmt.Errorf("count conversions: %w", err)
			}
			fmt.Printf("  Conversions: %d\n", n)

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("  DB size: %.1f MB\n", sizeMB)
			}
			return nil
		},
	}
}
