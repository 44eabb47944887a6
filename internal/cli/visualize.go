package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/menta2k/spritegen"
	"github.com/menta2k/spritegen/pkg/dataset"
)

func newVisualizeCmd() *cobra.Command {
	var (
		split string
		count int
	)

	cmd := &cobra.Command{
		Use:   "visualize [dataset-dir]",
		Short: "Draw the labeled boxes of generated images",
		Long: `Draw the bounding boxes of the first images of a split.

Overlays are written to <dataset-dir>/examples/annotated-<name>.png; the
examples directory is recreated on every run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := dataset.Split(split)
			if s != dataset.Train && s != dataset.Val {
				return fmt.Errorf("unknown split %q (use train or val)", split)
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			written, err := spritegen.Visualize(args[0], s, count, logger)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Visualized %d images", len(written)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&split, "split", "s", string(dataset.Train), "split to visualize: train or val")
	cmd.Flags().IntVarP(&count, "count", "n", 50, "number of images to annotate")

	return cmd
}
