package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackpng/stackpng/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Color      string // "auto" | "always" | "never"
	ConfigPath string
	History    string // SQLite run history; empty disables recording

	// color is the mode resolved from flags and configuration.
	color string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidColors defines the allowed color modes.
var ValidColors = []string{config.ColorAuto, config.ColorAlways, config.ColorNever}

// NewRootCommand creates the root command for the stackpng CLI.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	// The root command itself builds the animation.
	cmd := NewStackCommand(opts)
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !isOneOf(ValidFormats, opts.Format) {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
		}
		if !isOneOf(ValidColors, opts.Color) {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid color mode %q: must be one of %v", opts.Color, ValidColors))
		}
		return nil
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid arguments", err).
			WithHint(fmt.Sprintf("see '%s --help'", c.CommandPath()))
	})
	cmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", config.ColorAuto, "colored output (auto|always|never)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "configuration file (default ./"+config.DefaultFileName+" when present)")
	cmd.PersistentFlags().StringVar(&opts.History, "history", "", "SQLite database recording each build")

	// Add subcommands
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd, opts
}

// Execute runs the command line and returns the process exit code.
// Errors are reported on the command's output streams.
func Execute(args []string) int {
	cmd, opts := newRootCommand()
	cmd.SetArgs(args)
	return execute(cmd, opts)
}

func execute(cmd *cobra.Command, opts *RootOptions) int {
	err := cmd.Execute()
	if err != nil {
		reportError(cmd, opts, err)
	}
	return GetExitCode(err)
}

func (o *RootOptions) colorMode() string {
	if o.color != "" {
		return o.color
	}
	return o.Color
}

func isOneOf(valid []string, s string) bool {
	for _, v := range valid {
		if v == s {
			return true
		}
	}
	return false
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("unexpected argument %q for %q", args[0], cmd.CommandPath()))
	}
	return nil
}
