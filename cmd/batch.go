package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/batch"
	"github.com/brady-data/crimegun-cli/internal/classify"
	"github.com/brady-data/crimegun-cli/internal/config"
)

var (
	batchSize        int
	batchConcurrency int
	batchAll         bool
	batchDryRun      bool
	batchVerbose     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify unclassified records from the store in batches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchVerbose {
			logCfg := cfg.Log
			logCfg.Level = "debug"
			if err := config.InitLogger(logCfg); err != nil {
				return err
			}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		concurrency := cfg.Batch.Concurrency
		if batchConcurrency > 0 {
			concurrency = batchConcurrency
		}

		coord := batch.NewCoordinator(st, classify.NewResolver(), batch.Config{
			BatchSize:   batchSize,
			Concurrency: concurrency,
			DryRun:      batchDryRun,
		})

		if !batchAll {
			br, err := coord.ProcessBatch(ctx)
			if err != nil {
				return err
			}
			zap.L().Info("batch complete",
				zap.Int("fetched", br.Fetched),
				zap.Int("processed", br.Processed),
				zap.Int("failed", br.Failed))
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d, processed %d, failed %d\n",
				br.Fetched, br.Processed, br.Failed)
			return nil
		}

		summary, err := coord.ProcessAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
		return nil
	},
}

func renderSummary(s *batch.Summary) string {
	return fmt.Sprintf(
		"run %s\n  batches:   %d\n  total:     %d\n  processed: %d\n  skipped:   %d\n  failed:    %d\n  success:   %.1f%%\n",
		s.RunID, s.Batches, s.Total, s.Processed, s.Skipped, s.Failed, s.SuccessRate())
}

func init() {
	batchCmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per batch (capped at 20; 0 = cap)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent classifications per batch (0 = config default)")
	batchCmd.Flags().BoolVar(&batchAll, "all", false, "keep processing batches until none remain")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "classify without persisting")
	batchCmd.Flags().BoolVar(&batchVerbose, "verbose", false, "debug-level logging for this run")
	rootCmd.AddCommand(batchCmd)
}
