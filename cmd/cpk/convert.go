package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chatpack/cpk/internal/config"
	"github.com/chatpack/cpk/internal/convert"
	"github.com/chatpack/cpk/internal/detect"
	"github.com/chatpack/cpk/internal/engine"
	"github.com/chatpack/cpk/internal/history"
	"github.com/chatpack/cpk/internal/progress"
)

func convertCmd() *cobra.Command {
	var source, format, out string
	var timestamps, replays bool

	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert a chat export (non-interactive)",
		Long: `Convert a chat export file, or stdin when the argument is '-'.
The source platform is detected from the filename when --source is
omitted. Output goes to stdout unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.DefaultFormat
			}

			path := args[0]
			name := "stdin"
			var data []byte
			if path == "-" {
				data, err = io.ReadAll(io.LimitReader(os.Stdin, convert.MaxFileSize+1))
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				if err := convert.CheckSize(int64(len(data))); err != nil {
					return err
				}
			} else {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				if err := convert.CheckSize(info.Size()); err != nil {
					return err
				}
				data, err = os.ReadFile(path)
				if err != nil {
					return err
				}
				name = filepath.Base(path)
			}

			if source == "" {
				s, ok := detect.Source(path)
				if !ok {
					return fmt.Errorf("cannot detect source from %q, pass --source", path)
				}
				source = s
				log.Debug("detected source from filename", "source", s)
			}
			src, ok := convert.CanonicalSource(source)
			if !ok {
				return fmt.Errorf("unknown source %q (telegram, whatsapp, instagram, discord)", source)
			}
			fmtName, ok := convert.CanonicalFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q (csv, json, jsonl)", format)
			}

			if progress.NeedsIndicator(int64(len(data))) {
				log.Info("large input", "size", convert.FmtBytes(int64(len(data))), "estimated", progress.Estimate(int64(len(data))))
			}

			ldr := engine.NewLoader(engine.NewProc(cfg.EnginePath))
			st := <-ldr.Start(cmd.Context())
			if st.State != engine.StateReady {
				return errors.New(st.Err)
			}
			log.Debug("engine ready", "version", st.Version)

			res, err := convert.Invoke(ldr, convert.Request{
				Input:      string(data),
				Source:     src,
				Format:     fmtName,
				Timestamps: timestamps,
				Replays:    replays,
			})
			if err != nil {
				return err
			}

			if out != "" {
				if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
			} else {
				fmt.Print(res.Output)
			}

			log.Info("converted",
				"messages", res.Messages,
				"in", convert.FmtBytes(int64(res.InputBytes)),
				"out", convert.FmtBytes(int64(res.OutputBytes)))

			if db, err := history.Open(cfg.DBPath); err == nil {
				defer db.Close()
				if err := db.Append(history.Entry{
					InputName:   name,
					Source:      src,
					Format:      fmtName,
					Timestamps:  timestamps,
					Replays:     replays,
					InputBytes:  res.InputBytes,
					OutputBytes: res.OutputBytes,
					Messages:    res.Messages,
				}); err != nil {
					log.Warn("history not recorded", "error", err)
				}
			} else {
				log.Warn("history unavailable", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source platform (telegram/whatsapp/instagram/discord), detected from filename if omitted")
	cmd.Flags().StringVar(&format, "format", "", "Output format (csv/json/jsonl), config default if omitted")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Include message timestamps")
	cmd.Flags().BoolVar(&replays, "replays", false, "Include reply-reference context")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write result to file instead of stdout")

	return cmd
}
