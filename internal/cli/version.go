// Implements: prd009-crossbar-cli (R2.1: version command).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crossbar/pkg/crossbar"
)

const modulePath = "github.com/mesh-intelligence/crossbar"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crossbar version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "crossbar v%s\nmodule: %s\n", crossbar.Version, modulePath)
			return nil
		},
	}
}
