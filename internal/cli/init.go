// Implements: prd009-crossbar-cli (R2.2: init command);
//
//	prd010-configuration-directories (R1, R8).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize crossbar configuration",
		Long:  "Create the configuration directory and a default config.yaml.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("resolve config directory: %s", err))
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("create config directory: %s", err))
	}

	created, err := writeConfigIfMissing(configDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("write config: %s", err))
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized crossbar configuration in %s\n", configDir)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration already present in %s\n", configDir)
	}
	return nil
}

// exitError prints the error to stderr and exits with the given code.
func exitError(cmd *cobra.Command, code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
