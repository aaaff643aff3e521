package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	veil "github.com/dataveil/veil"
)

func newTransformCmd() *cobra.Command {
	var metadataFile, dataFile, consumer, output string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform sensitive data based on metadata and consumer policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := veil.NewMetadataLoader(filepath.Dir(metadataFile))
			if err != nil {
				return err
			}
			table, err := loader.LoadTable(filepath.Base(metadataFile))
			if err != nil {
				return err
			}

			header, columns, err := readCSVColumns(dataFile)
			if err != nil {
				return err
			}
			log.Info().Str("table", table.TableName).Int("columns", len(header)).Msg("loaded data")

			cfg, err := veil.LoadConfig()
			if err != nil {
				return err
			}

			pipe := veil.NewPipeline(
				newClassifier(),
				veil.NewPolicyEngine(),
				veil.NewEngine(veil.WithConfig(cfg)),
			)

			run := pipe.TransformTable(table, columns, veil.ConsumerType(consumer))
			fmt.Fprintln(cmd.OutOrStdout(), veil.Report(run.Classifications, table.TableName))

			if err := writeCSVColumns(output, header, run.Columns); err != nil {
				return err
			}
			log.Info().
				Str("run_id", run.RunID).
				Str("consumer", consumer).
				Str("output", output).
				Msg("transformed data saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataFile, "metadata-file", "", "YAML metadata file for the table")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "CSV file containing the data")
	cmd.Flags().StringVar(&consumer, "consumer", string(veil.InternalAnalyst), "consumer type for policy")
	cmd.Flags().StringVar(&output, "output", "transformed_data.csv", "output file for transformed data")
	_ = cmd.MarkFlagRequired("metadata-file")
	_ = cmd.MarkFlagRequired("data-file")
	return cmd
}

// readCSVColumns loads a CSV file into per-column value slices, keyed by
// the header row.
func readCSVColumns(path string) ([]string, map[string][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open data %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read data %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("data file %s is empty", path)
	}

	header := records[0]
	columns := make(map[string][]any, len(header))
	for i, name := range header {
		values := make([]any, 0, len(records)-1)
		for _, row := range records[1:] {
			if i < len(row) {
				values = append(values, row[i])
			} else {
				values = append(values, "")
			}
		}
		columns[name] = values
	}
	return header, columns, nil
}

// writeCSVColumns writes per-column values back out in the original
// column order.
func writeCSVColumns(path string, header []string, columns map[string][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	rows := 0
	for _, values := range columns {
		if len(values) > rows {
			rows = len(values)
		}
	}

	record := make([]string, len(header))
	for i := 0; i < rows; i++ {
		for j, name := range header {
			record[j] = ""
			if values := columns[name]; i < len(values) {
				record[j] = fmt.Sprint(values[i])
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
