package main

import (
	"fmt"
	"sort"

	"promnamelint/internal/checker"
	"promnamelint/internal/pyast"

	"github.com/spf13/cobra"
)

var constructorsCmd = &cobra.Command{
	Use:   "constructors",
	Short: "Print the effective constructor mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mapping, err := cfg.ConstructorMapping()
		if err != nil {
			return err
		}
		idents := make([]string, 0, len(mapping))
		for ident := range mapping {
			idents = append(idents, ident)
		}
		sort.Strings(idents)

		out := cmd.OutOrStdout()
		for _, ident := range idents {
			fmt.Fprintf(out, "%-20s %s\n", ident, mapping[ident].Type())
		}
		return nil
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <python expression>",
	Short: "Run the check on one expression and show where it concluded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		chk, err := newChecker(cfg)
		if err != nil {
			return err
		}
		node, err := pyast.ParseExpression(args[0])
		if err != nil {
			return err
		}
		res, err := chk.Inspect(node)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "outcome:     %s\n", res.Outcome)
		if res.Constructor != "" {
			fmt.Fprintf(out, "constructor: %s\n", res.Constructor)
		}
		switch res.Outcome {
		case checker.OutcomeRejected:
			fmt.Fprintf(out, "rejected:    %s\n", res.Rejection)
		case checker.OutcomeValid, checker.OutcomeViolation:
			fmt.Fprintf(out, "type:        %s\n", res.Metric.Type)
			fmt.Fprintf(out, "name:        %s\n", res.Metric.Name())
			fmt.Fprintf(out, "prefixes:    %s\n", chk.Prefixes())
		}
		return nil
	},
}
