// Package cli implements the crossbar command-line interface.
// Implements: prd009-crossbar-cli (R1: Root command structure, R5: Global flags,
//             R6: Exit codes, R7: Output modes);
//             docs/ARCHITECTURE § CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crossbar/internal/paths"
	"github.com/mesh-intelligence/crossbar/pkg/dispatch"
)

// Exit codes (prd009-crossbar-cli R6).
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	backend   string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "crossbar" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "crossbar",
		Short: "Backend dispatch for collection-creation operations",
		Long: "Crossbar routes named collection-creation operations (read_csv,\n" +
			"read_sql, ...) to a configured backend, falling back and converting\n" +
			"results when the active backend lacks an operation.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	// Global persistent flags (prd009-crossbar-cli R5).
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "override the active backend label")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newBackendsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newReadCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flags.configDir)
}

// newDefaultRegistry builds the built-in registry, reporting failures as
// system errors.
func newDefaultRegistry() (*dispatch.Registry, error) {
	reg, err := dispatch.NewDefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("initialize built-in backends: %w", err)
	}
	return reg, nil
}
