package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"promnamelint/internal/report"

	"github.com/spf13/cobra"
)

var (
	diffRef          string
	changedLinesOnly bool
	metricsFile      string
	pruneCache       bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check Python files for metric names without an allowed prefix",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if metricsFile != "" {
			cfg.MetricsFile = metricsFile
		}
		if changedLinesOnly && diffRef == "" {
			return fmt.Errorf("--changed-lines-only requires --diff")
		}
		writer, err := report.NewWriter(cfg.Format)
		if err != nil {
			return err
		}

		s, err := newSession(ctx, cfg, sessionOptions{
			diffRef:          diffRef,
			changedLinesOnly: changedLinesOnly,
			pruneCache:       pruneCache,
		})
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.runner.Run(ctx, rootsOrDefault(args))
		if err != nil {
			return err
		}
		if err := writer.Write(cmd.OutOrStdout(), res.Diagnostics); err != nil {
			return err
		}
		slog.Info("Check complete",
			"files", res.Summary.Files,
			"cached", res.Summary.CachedFiles,
			"violations", res.Summary.Violations)

		if cfg.MetricsFile != "" {
			if err := s.recorder.WriteTextfile(cfg.MetricsFile); err != nil {
				slog.Warn("Failed to write metrics file", "path", cfg.MetricsFile, "error", err)
			}
		}

		if res.Summary.Violations > 0 {
			return errViolations
		}
		return nil
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&diffRef, "diff", "", "Only check Python files changed relative to this git ref")
	f.BoolVar(&changedLinesOnly, "changed-lines-only", false, "With --diff, only report violations on changed lines")
	f.StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	f.BoolVar(&pruneCache, "prune-cache", false, "Drop cache entries for files not visited by this run")
}
