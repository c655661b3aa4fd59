package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compile and render every scenario once",
		Long: `Load every YAML scenario definition, compile it against the fixture root
and render each scenario once. Exits non-zero when any scenario fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Check(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "check failed", err)
			}
			if err := writeResult(cmd.OutOrStdout(), rootOpts.Format, report); err != nil {
				return err
			}
			if !report.OK() {
				return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", report.Failed, len(report.Scenarios)))
			}
			return nil
		},
	}
}
