package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/menta2k/spritegen/internal/config"
	"github.com/menta2k/spritegen/pkg/sampler"
	"github.com/menta2k/spritegen/pkg/types"
)

func newEstimateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print per-class count histograms measured on real samples",
		Long: `Estimate how often each class appears per image in a real, labeled
dataset. The histograms are the ones the mimic-real scheme samples from.
Classes need a real_id in the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.GetConfigPath()
			}
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			classes := cfg.RealClasses()
			if len(classes) == 0 {
				return fmt.Errorf("no class in %s has a real_id: %w", configPath, types.ErrEmptyClassSet)
			}

			loggerFromContext(cmd.Context()).Debug("reading real samples", "dir", cfg.RealSampleLabels())
			specs, err := sampler.EstimateFrequencies(cfg.RealSampleLabels(), classes)
			if err != nil {
				return err
			}
			printHistograms(cmd.OutOrStdout(), specs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the configuration file (.json or .toml)")

	return cmd
}

func printHistograms(w io.Writer, specs []types.ClassSpec) {
	for _, s := range specs {
		fmt.Fprintf(w, "%s:\n", s.Name)
		for i, v := range s.Values {
			fmt.Fprintf(w, "  %3d  %.4f\n", v, s.Probabilities[i])
		}
	}
}
