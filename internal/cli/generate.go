package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menta2k/spritegen"
	"github.com/menta2k/spritegen/internal/config"
	"github.com/menta2k/spritegen/internal/utils"
	"github.com/menta2k/spritegen/pkg/dataset"
)

// generateOptions are flag overrides applied on top of the config file
type generateOptions struct {
	numImages int
	seed      uint64
	workers   int
	output    string
	clean     bool
	visualize int
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset from a configuration file",
		Long: `Generate a dataset from a JSON or TOML configuration file.

Images go to <output>/images/{train,val} and label files to
<output>/labels/{train,val}; a dataset.json summary is written at the end.
Flags override the matching configuration values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.GetConfigPath()
			}
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", configPath, err)
			}
			return runGenerate(cmd, cfg, opts.visualize)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the configuration file (.json or .toml)")
	cmd.Flags().IntVarP(&opts.numImages, "num-images", "n", 0, "number of images to generate")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of images generated in parallel")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "remove the output directory first")
	cmd.Flags().IntVar(&opts.visualize, "visualize", 0, "annotate this many train images after generating")

	return cmd
}

func (o generateOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("num-images") {
		cfg.Parameters.NumImages = o.numImages
	}
	if flags.Changed("seed") {
		cfg.Parameters.Seed = o.seed
	}
	if flags.Changed("workers") {
		cfg.Parameters.Workers = o.workers
	}
	if flags.Changed("output") {
		cfg.Directories.Output = o.output
	}
	if flags.Changed("clean") {
		cfg.Output.Clean = o.clean
	}
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, visualize int) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	if cfg.Output.Clean && utils.DirExists(cfg.Directories.Output) {
		logger.Warn("removing output directory", "dir", cfg.Directories.Output)
	}

	summary, err := spritegen.Run(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d images with %d boxes", summary.Images, summary.Boxes))

	if visualize > 0 {
		written, err := spritegen.Visualize(cfg.Directories.Output, dataset.Train, visualize, logger)
		if err != nil {
			return err
		}
		logger.Info("annotated examples", "count", len(written), "dir", dataset.Layout{Root: cfg.Directories.Output}.ExamplesDir())
	}
	return nil
}
