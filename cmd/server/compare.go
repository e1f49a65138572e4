package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/holding"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/records"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/storage"
)

type compareOptions struct {
	relation    string
	databaseURL string
	limit       int
}

func compareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare LEFT RIGHT",
		Short: "Compare every holding in one document with every holding in another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rel, err := factor.ParseRelation(opts.relation)
			if err != nil {
				return err
			}

			source, closeSource, err := openTextSource(opts.databaseURL)
			if err != nil {
				return err
			}
			defer closeSource()

			left, err := loadHoldings(cmd.Context(), args[0], source)
			if err != nil {
				return err
			}
			right, err := loadHoldings(cmd.Context(), args[1], source)
			if err != nil {
				return err
			}
			return compareHoldings(cmd.OutOrStdout(), rel, opts.limit,
				namedHoldings{filepath.Base(args[0]), left},
				namedHoldings{filepath.Base(args[1]), right})
		},
	}

	cmd.Flags().StringVarP(&opts.relation, "relation", "r", "implies", "Relation to test (implies, means, contradicts)")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "Look up enactment text in this provision database")
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "Maximum explanations printed per pair")
	return cmd
}

// openTextSource connects to the provision database at url, if any.
func openTextSource(url string) (records.TextSource, func() error, error) {
	if url == "" {
		return nil, func() error { return nil }, nil
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return storage.NewPostgresProvisionRepository(db), db.Close, nil
}

type namedHoldings struct {
	name     string
	holdings []*holding.Holding
}

func loadHoldings(ctx context.Context, path string, source records.TextSource) ([]*holding.Holding, error) {
	doc, err := records.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	holdings, err := records.NewDecoder(source).Holdings(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return holdings, nil
}

// compareHoldings prints, for each pair, whether rel holds and why.
func compareHoldings(w io.Writer, rel factor.Relation, limit int, left, right namedHoldings) error {
	for i, a := range left.holdings {
		for j, b := range right.holdings {
			header := fmt.Sprintf("%s[%d] %s %s[%d]", left.name, i, rel, right.name, j)
			found := 0
			for e := range a.Explanations(b, rel) {
				if found == limit {
					if _, err := fmt.Fprintln(w, "  ..."); err != nil {
						return err
					}
					break
				}
				if found == 0 {
					if _, err := fmt.Fprintln(w, header); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(w, "  %s\n", e); err != nil {
					return err
				}
				found++
			}
			if found == 0 {
				if _, err := fmt.Fprintf(w, "%s: no\n", header); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
