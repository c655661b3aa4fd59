package cli

import (
	"github.com/spf13/cobra"
)

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <scenario>",
		Short: "Print one rendered activation of a scenario as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			rendering, err := a.Render(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "render failed", err)
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, rendering)
		},
	}
}
