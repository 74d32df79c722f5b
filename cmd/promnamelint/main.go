package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// errViolations signals exit status 1 without printing an error.
var errViolations = errors.New("violations found")

var (
	rootCmd = &cobra.Command{
		Use:           "promnamelint",
		Short:         "Check that Prometheus metrics defined in Python code use allowed name prefixes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".promnamelint.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringArrayVarP(&prefixFlags, "prefix", "p", nil, "Allowed metric name prefix (repeatable, overrides config)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&cacheFlag, "cache", "", "Path to the SQLite result cache")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(constructorsCmd)
	rootCmd.AddCommand(explainCmd)
}
