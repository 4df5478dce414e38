package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/batch"
	"github.com/brady-data/crimegun-cli/internal/classify"
)

var (
	swarmInput        string
	swarmOutput       string
	swarmBatchSize    int
	swarmSkipExisting bool
	swarmStartRow     int
	swarmEndRow       int
	swarmDryRun       bool
)

var swarmCmd = &cobra.Command{
	Use:   "swarm",
	Short: "Classify a CSV export batch by batch",
	Long:  "Loads rows from a CSV export, splits them into dispatch batches, and either classifies them in-process and writes the annotated CSV, or (with --dry-run) prints the per-record prompt payloads that an external agent pool would receive.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, header, skipped, err := batch.LoadCSV(swarmInput, batch.CSVOptions{
			SkipExisting: swarmSkipExisting,
			StartRow:     swarmStartRow,
			EndRow:       swarmEndRow,
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no records to classify")
			return nil
		}

		batches := batch.SplitBatches(records, swarmBatchSize)
		zap.L().Info("csv split",
			zap.Int("records", len(records)),
			zap.Int("batches", len(batches)))

		if swarmDryRun {
			for i, b := range batches {
				d, err := batch.BuildDispatch(i+1, b)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(d, "", "  ")
				if err != nil {
					return eris.Wrap(err, "marshal dispatch")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			return nil
		}

		if swarmOutput == "" {
			return eris.New("--output is required unless --dry-run is set")
		}

		results, summary := batch.ClassifyCSV(classify.NewResolver(), records, skipped)
		if err := batch.WriteCSV(swarmOutput, header, records, results); err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
		return nil
	},
}

func init() {
	swarmCmd.Flags().StringVar(&swarmInput, "input", "", "path to input CSV (required)")
	swarmCmd.Flags().StringVar(&swarmOutput, "output", "", "path to write the annotated CSV")
	swarmCmd.Flags().IntVar(&swarmBatchSize, "batch-size", 0, "records per batch (capped at 20; 0 = cap)")
	swarmCmd.Flags().BoolVar(&swarmSkipExisting, "skip-existing", true, "skip rows that already carry a state")
	swarmCmd.Flags().IntVar(&swarmStartRow, "start-row", 0, "first source row to include (1-based)")
	swarmCmd.Flags().IntVar(&swarmEndRow, "end-row", 0, "last source row to include (1-based)")
	swarmCmd.Flags().BoolVar(&swarmDryRun, "dry-run", false, "print dispatch payloads instead of classifying")
	_ = swarmCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(swarmCmd)
}
