package main

import (
	"fmt"

	"github.com/spf13/cobra"

	veil "github.com/dataveil/veil"
)

func newTrainCmd() *cobra.Command {
	var metadataDir, output string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the sensitivity model from metadata files",
		Long: `Train fits a portable text-classification model (tf-idf n-grams into a
multinomial logistic layer) on every column found in the metadata
directory, labeling columns with the rule-based classifier. The saved
model is picked up by classify and transform via VEIL_MODEL_PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := veil.NewMetadataLoader(metadataDir)
			if err != nil {
				return err
			}
			tables, err := loader.LoadAll()
			if err != nil {
				log.Warn().Err(err).Msg("some metadata files failed to load")
			}

			samples := veil.SamplesFromTables(tables)
			log.Info().Int("tables", len(tables)).Int("samples", len(samples)).Msg("prepared training data")

			model, err := veil.NewTrainer().Fit(samples)
			if err != nil {
				return err
			}
			if err := model.Save(output); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "model trained on %d samples, saved to %s\n", len(samples), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "", "directory containing YAML metadata files")
	cmd.Flags().StringVar(&output, "output", "models/sensitivity_classifier.json", "path for the saved model")
	_ = cmd.MarkFlagRequired("metadata-dir")
	return cmd
}
