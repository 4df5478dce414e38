package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brady-data/crimegun-cli/internal/classify"
	"github.com/brady-data/crimegun-cli/internal/model"
)

var (
	classifyRecordJSON string
	classifyRecordID   int64
	classifyUpdate     bool
	classifyOutput     string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the crime location of a single record",
	Long:  "Runs the extractor chain over one record, given inline as JSON or fetched from the store by id, and prints the inferred location. With --update the result is written back to the store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := validateClassifyFlags(classifyRecordJSON, classifyRecordID, classifyUpdate); err != nil {
			return err
		}

		resolver := classify.NewResolver()

		var rec model.Record
		if classifyRecordJSON != "" {
			parsed, err := parseRecordJSON(classifyRecordJSON)
			if err != nil {
				return err
			}
			rec = parsed
		} else {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err = st.FetchByID(ctx, classifyRecordID)
			if err != nil {
				return eris.Wrapf(err, "fetch record %d", classifyRecordID)
			}

			if classifyUpdate {
				res := resolver.Classify(rec)
				ok, err := st.Persist(ctx, classifyRecordID, &res)
				if err != nil {
					return eris.Wrapf(err, "persist record %d", classifyRecordID)
				}
				if !ok {
					return eris.Errorf("record %d matched no row on update", classifyRecordID)
				}
				zap.L().Info("record updated", zap.Int64("record_id", classifyRecordID))
				return printResult(cmd, &res)
			}
		}

		res := resolver.Classify(rec)
		return printResult(cmd, &res)
	},
}

func validateClassifyFlags(recordJSON string, id int64, update bool) error {
	if (recordJSON == "") == (id == 0) {
		return eris.New("exactly one of --record or --id is required")
	}
	if update && recordJSON != "" {
		return eris.New("--update requires --id")
	}
	return nil
}

func parseRecordJSON(raw string) (model.Record, error) {
	var rec model.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, eris.Wrap(err, "parse --record JSON")
	}
	return rec, nil
}

func printResult(cmd *cobra.Command, res *model.LocationResult) error {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal result")
	}
	if classifyOutput != "" {
		if err := os.WriteFile(classifyOutput, append(out, '\n'), 0o644); err != nil {
			return eris.Wrapf(err, "write %s", classifyOutput)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func init() {
	classifyCmd.Flags().StringVar(&classifyRecordJSON, "record", "", "record as inline JSON")
	classifyCmd.Flags().Int64Var(&classifyRecordID, "id", 0, "record id to fetch from the store")
	classifyCmd.Flags().BoolVar(&classifyUpdate, "update", false, "write the result back to the store (requires --id)")
	classifyCmd.Flags().StringVar(&classifyOutput, "output", "", "write the result JSON to a file instead of stdout")
	rootCmd.AddCommand(classifyCmd)
}
