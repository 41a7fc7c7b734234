package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/stackpng/stackpng/internal/cli.Version=v1.2.3".
var Version = "dev"

// VersionResult is the JSON payload of the version command.
type VersionResult struct {
	Version string `json:"version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the stackpng version",
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Format == "json" {
				formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
				return formatter.Success(VersionResult{Version: Version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stackpng %s\n", Version)
			return nil
		},
	}
}
