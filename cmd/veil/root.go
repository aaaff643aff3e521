package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/spf13/cobra"

	veil "github.com/dataveil/veil"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "veil",
		Short:         "Classify and transform sensitive tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClassifyCmd(),
		newTransformCmd(),
		newPoliciesCmd(),
		newSamplesCmd(),
		newTrainCmd(),
	)
	return root
}

func newClassifyCmd() *cobra.Command {
	var metadataDir, output string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify columns in metadata files",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := veil.NewMetadataLoader(metadataDir)
			if err != nil {
				return err
			}
			tables, err := loader.LoadAll()
			if err != nil {
				log.Warn().Err(err).Msg("some metadata files failed to load")
			}
			if len(tables) == 0 {
				return fmt.Errorf("no metadata files found in %s", metadataDir)
			}

			classifier := newClassifier()

			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create report %s: %w", output, err)
			}
			defer out.Close()

			names := make([]string, 0, len(tables))
			for name := range tables {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				log.Info().Str("table", name).Msg("classifying table")
				results := classifier.ClassifyTable(tables[name].Columns)
				report := veil.Report(results, name)

				fmt.Fprintln(cmd.OutOrStdout(), report)
				fmt.Fprintln(out, report)

				fmt.Fprintln(out, "Summary:")
				summary := veil.Summary(results)
				for _, level := range veil.Levels() {
					fmt.Fprintf(out, "  %s: %d\n", level, summary[level])
				}
			}

			log.Info().Str("output", output).Msg("report saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "", "directory containing YAML metadata files")
	cmd.Flags().StringVar(&output, "output", "metadata_report.txt", "output file for classification report")
	_ = cmd.MarkFlagRequired("metadata-dir")
	return cmd
}

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List available consumer policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := veil.NewPolicyEngine()
			fmt.Fprintln(cmd.OutOrStdout(), "Available Consumer Policies:")
			for _, consumer := range engine.ListPolicies() {
				policy, _ := engine.Policy(string(consumer))
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %s\n", consumer, policy.Name)
				for _, level := range veil.Levels() {
					rule, _ := policy.Rule(level)
					fmt.Fprintf(cmd.OutOrStdout(), "  %-20s -> %s\n", level, rule.Kind)
				}
			}
			return nil
		},
	}
}

func newSamplesCmd() *cobra.Command {
	var outputDir string
	var seed int64

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Generate sample metadata files",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := veil.NewSampleGenerator(rand.New(rand.NewSource(seed)))
			for _, table := range gen.SampleTables() {
				path, err := veil.SaveTable(table, outputDir)
				if err != nil {
					return err
				}
				log.Info().Str("path", path).Msg("generated metadata")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "table_structure/metadata", "directory for generated metadata files")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for sample generation")
	return cmd
}

// newClassifier builds a classifier from environment configuration,
// loading a model when VEIL_MODEL_PATH is set. A missing or unreadable
// model logs a warning and degrades to rule-based classification.
func newClassifier() *veil.Classifier {
	cfg, err := veil.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("invalid environment config, using defaults")
		return veil.NewClassifier()
	}
	if cfg.ModelPath == "" {
		return veil.NewClassifier()
	}

	model, err := veil.LoadModel(cfg.ModelPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.ModelPath).Msg("model unavailable, falling back to rule-based")
		return veil.NewClassifier()
	}
	log.Info().Str("path", cfg.ModelPath).Msg("loaded learned model")
	return veil.NewClassifier(veil.WithModel(model))
}
