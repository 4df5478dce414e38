package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/ingest"
	"github.com/brady-data/crimegun-cli/internal/model"
	"github.com/brady-data/crimegun-cli/internal/store"
)

var (
	importFile   string
	importMode   string
	importFormat string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a source workbook or unified-schema CSV into the store",
	Long:  "Reads an XLSX source workbook (dealer database or DE Gunstat layout) or a unified-schema CSV export, transforms rows into events with ingest-time jurisdictions, and loads them. Mode replace wipes each imported dataset first; mode merge upserts on (dataset, sheet, row).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importMode != "replace" && importMode != "merge" {
			return eris.Errorf("unknown import mode %q (want replace or merge)", importMode)
		}
		if importFormat != "dealerdb" && importFormat != "gunstat" {
			return eris.Errorf("unknown import format %q (want dealerdb or gunstat)", importFormat)
		}

		events, err := loadImportFile(importFile, importFormat)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no events to import")
			return nil
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var written int
		if importMode == "merge" {
			written, err = st.UpsertEvents(ctx, events)
		} else {
			written, err = replaceByDataset(cmd, st, events)
		}
		if err != nil {
			return eris.Wrap(err, "import events")
		}

		zap.L().Info("import complete",
			zap.String("file", importFile),
			zap.String("mode", importMode),
			zap.Int("events", written))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d events (%s)\n", written, importMode)
		return nil
	},
}

func loadImportFile(path, format string) ([]model.Event, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		if format == "gunstat" {
			res, err := ingest.LoadGunstat(path)
			if err != nil {
				return nil, err
			}
			return res.Events, nil
		}
		res, err := ingest.LoadDealerDB(path)
		if err != nil {
			return nil, err
		}
		return res.Events, nil
	case ".csv":
		return ingest.ReadEventsCSV(path)
	default:
		return nil, eris.Errorf("unsupported import file %q (want .xlsx or .csv)", path)
	}
}

// replaceByDataset groups events by source dataset and replaces each group
// atomically, so a workbook mixing datasets cannot clobber an unrelated one.
func replaceByDataset(cmd *cobra.Command, st store.Store, events []model.Event) (int, error) {
	groups := map[string][]model.Event{}
	var order []string
	for _, ev := range events {
		if _, seen := groups[ev.SourceDataset]; !seen {
			order = append(order, ev.SourceDataset)
		}
		groups[ev.SourceDataset] = append(groups[ev.SourceDataset], ev)
	}

	total := 0
	for _, dataset := range order {
		n, err := st.ReplaceDataset(cmd.Context(), dataset, groups[dataset])
		if err != nil {
			return total, eris.Wrapf(err, "replace dataset %s", dataset)
		}
		total += n
	}
	return total, nil
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to .xlsx or .csv input (required)")
	importCmd.Flags().StringVar(&importMode, "mode", "replace", "replace or merge")
	importCmd.Flags().StringVar(&importFormat, "format", "dealerdb", "xlsx layout: dealerdb or gunstat")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
