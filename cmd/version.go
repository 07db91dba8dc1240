// File: cmd/version.go
package cmd

import (
	"fmt"

	"byteweaver/pkg/version"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// newVersionCmd returns the version subcommand. The --short flag prints the
// bare version number.
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of byteweaver",
		Long:  `Display the build information of the byteweaver CLI.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return errors.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}

	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
