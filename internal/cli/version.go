package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the griddle release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/griddle"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the griddle version",
		// The version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "griddle v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
