package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brady-data/crimegun-cli/internal/store"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show classification progress and ZIP distribution",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := store.CollectStats(ctx, st)
		if err != nil {
			return eris.Wrap(err, "collect stats")
		}

		out, err := formatStats(stats, statusFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func formatStats(stats *store.Stats, format string) (string, error) {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(stats)
		if err != nil {
			return "", eris.Wrap(err, "marshal stats")
		}
		return string(out), nil
	case "text":
		s := fmt.Sprintf("total:      %d\nclassified: %d\nremaining:  %d\nprogress:   %.1f%%\n",
			stats.Total, stats.Classified, stats.Remaining, stats.ProgressPct)
		if len(stats.ZIPDistribution) > 0 {
			s += "zip distribution:\n"
			for _, zc := range stats.ZIPDistribution {
				s += fmt.Sprintf("  %s: %d\n", zc.ZIP, zc.Count)
			}
		}
		return s, nil
	default:
		return "", eris.Errorf("unknown format %q (want text or yaml)", format)
	}
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "text", "text or yaml")
	rootCmd.AddCommand(statusCmd)
}
