package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/menta2k/spritegen"
)

var (
	commit string
	date   string
)

// SetBuildInfo sets the commit and build date shown by --version
func SetBuildInfo(c, d string) {
	commit = c
	date = d
}

// NewRootCommand returns the spritegen command tree
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "spritegen",
		Short:        "spritegen builds synthetic object-detection datasets",
		Long:         `spritegen composites sprites onto backgrounds and writes images with YOLO-style label files, ready for training an object detector.`,
		Version:      spritegen.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("spritegen %s\ncommit: %s\nbuilt: %s\n", spritegen.Version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newVisualizeCmd())
	root.AddCommand(newEstimateCmd())
	return root
}

// Execute runs the CLI with ctx
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}
