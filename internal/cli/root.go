// Package cli implements the vhttp command line.
package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sophialabs/vhttp/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config app.Config
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vhttp CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: app.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "vhttp",
		Short: "vhttp - virtual HTTP scenarios for tests",
		Long:  "Check and render the scenarios and fixtures used to virtualize outbound HTTP calls in tests.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cfg := &opts.Config
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.RootDir, "root", cfg.RootDir, "fixture root directory")
	flags.StringVar(&cfg.ScenarioDir, "scenarios", cfg.ScenarioDir, "directory of YAML scenario definitions")
	flags.StringVar(&cfg.Engine, "engine", cfg.Engine, "template engine (expr, jinja2)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// newApp builds the application, logging to the command's error stream.
func newApp(opts *RootOptions, errOut io.Writer) (*app.App, error) {
	a, err := app.New(opts.Config, errOut)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to initialize", err)
	}
	return a, nil
}
