package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sophialabs/vhttp/internal/app"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run check whenever fixtures or definitions change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.Watch(ctx, func(report *app.Report, err error) {
				if err != nil {
					a.Logger().Error("check failed", "error", err)
					return
				}
				if err := writeResult(cmd.OutOrStdout(), rootOpts.Format, report); err != nil {
					a.Logger().Error("failed to write report", "error", err)
				}
			})
		},
	}
}
