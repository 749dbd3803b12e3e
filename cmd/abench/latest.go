package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kettleby/abench/compare"
	"github.com/kettleby/abench/results"
)

func newLatestCmd() *cobra.Command {
	var resultsDir string
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent comparison record",
		RunE: func(_ *cobra.Command, _ []string) error {
			store := results.NewStore(resultsDir)

			rec, err := store.Latest()
			if err != nil {
				if errors.Is(err, results.ErrNoResults) {
					return fmt.Errorf("no comparisons recorded in %s yet",
						resultsDir)
				}

				return err
			}

			if outputJSON {
				return compare.WriteJSON(os.Stdout, rec)
			}

			return compare.WriteReport(os.Stdout, rec)
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results-dir", "results",
		"Directory holding persisted comparison records")
	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Print the record as JSON instead of a table")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var resultsDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List all persisted comparison records",
		RunE: func(_ *cobra.Command, _ []string) error {
			store := results.NewStore(resultsDir)

			records, err := store.List()
			if err != nil {
				return err
			}

			if len(records) == 0 {
				return fmt.Errorf("no comparisons recorded in %s yet",
					resultsDir)
			}

			fmt.Println("| Timestamp | Mode | Targets | Metrics |")
			fmt.Println("|-----------|------|---------|---------|")

			for _, rec := range records {
				fmt.Printf("| %s | %s | %s vs %s | %d |\n",
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					rec.Mode, rec.TargetA, rec.TargetB, len(rec.Metrics),
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results-dir", "results",
		"Directory holding persisted comparison records")

	return cmd
}
