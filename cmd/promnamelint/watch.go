package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"promnamelint/internal/report"
	"promnamelint/internal/watch"

	"github.com/spf13/cobra"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-check Python files whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		writer, err := report.NewWriter(cfg.Format)
		if err != nil {
			return err
		}
		s, err := newSession(ctx, cfg, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		roots := rootsOrDefault(args)
		res, err := s.runner.Run(ctx, roots)
		if err != nil {
			return err
		}
		if err := writer.Write(cmd.OutOrStdout(), res.Diagnostics); err != nil {
			return err
		}
		slog.Info("Initial check complete", "files", res.Summary.Files, "violations", res.Summary.Violations)

		w, err := watch.NewWatcher(watch.Config{
			Roots:         roots,
			Crawler:       s.crawler,
			DebounceDelay: debounce,
			Logger:        slog.Default(),
		})
		if err != nil {
			return err
		}
		defer w.Stop()
		if err := w.Start(ctx); err != nil {
			return err
		}

		for batch := range w.Events() {
			var diags []report.Diagnostic
			for _, ev := range batch {
				if ev.Operation == watch.OpDelete {
					slog.Debug("File removed", "path", ev.Path)
					continue
				}
				fr, err := s.runner.CheckFile(ctx, ev.Path)
				if err != nil {
					return err
				}
				diags = append(diags, fr.Diagnostics...)
			}
			report.Sort(diags)
			if err := writer.Write(cmd.OutOrStdout(), diags); err != nil {
				return err
			}
			slog.Info("Re-checked changed files", "files", len(batch), "violations", len(diags))
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Time to collect file changes before re-checking")
}
