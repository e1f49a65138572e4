package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/contradiction"
)

type scanOptions struct {
	databaseURL   string
	redundant     bool
	limit         int
	maxPairs      int
	maxConcurrent int
}

func scanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "Find holdings that contradict each other across one or more documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, closeSource, err := openTextSource(opts.databaseURL)
			if err != nil {
				return err
			}
			defer closeSource()

			var entries []contradiction.Entry
			for _, path := range args {
				holdings, err := loadHoldings(cmd.Context(), path, source)
				if err != nil {
					return err
				}
				for i, h := range holdings {
					entries = append(entries, contradiction.Entry{Source: filepath.Base(path), Index: i, Holding: h})
				}
			}

			svc := contradiction.NewService(contradiction.ServiceConfig{
				MaxPairs:         opts.maxPairs,
				MaxConcurrent:    opts.maxConcurrent,
				MaxExplanations:  opts.limit,
				IncludeRedundant: opts.redundant,
			})
			report, err := svc.Scan(cmd.Context(), entries)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "Look up enactment text in this provision database")
	cmd.Flags().BoolVar(&opts.redundant, "redundant", false, "Also report holdings implied by another holding")
	cmd.Flags().IntVar(&opts.limit, "limit", 3, "Maximum explanations printed per finding")
	cmd.Flags().IntVar(&opts.maxPairs, "max-pairs", 0, "Maximum holding pairs to compare (0 for default)")
	cmd.Flags().IntVar(&opts.maxConcurrent, "concurrency", 0, "Pairs compared at once (0 for default)")
	return cmd
}

func printReport(w io.Writer, report *contradiction.Report) error {
	for _, f := range report.Findings {
		if _, err := fmt.Fprintf(w, "[%s] %s %s %s\n", f.Severity, f.Left.Label(), f.Kind, f.Right.Label()); err != nil {
			return err
		}
		for _, e := range f.Explanations {
			if _, err := fmt.Fprintf(w, "  %s\n", e); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d findings in %d pairs", len(report.Findings), report.PairsChecked)
	if err == nil && report.PairsSkipped > 0 {
		_, err = fmt.Fprintf(w, " (%d pairs skipped)", report.PairsSkipped)
	}
	if err == nil {
		_, err = fmt.Fprintln(w)
	}
	return err
}
