// Implements: prd009-crossbar-cli (R4: effective configuration display).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// kindConfig mirrors the per-kind configuration block in config.yaml.
type kindConfig struct {
	Library       string `yaml:"library" json:"library"`
	AllowFallback bool   `yaml:"allow-fallback" json:"allow-fallback"`
	WarnFallback  bool   `yaml:"warn-fallback" json:"warn-fallback"`
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective backend configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := resolveConfigDir()
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("resolve config directory: %s", err))
			}
			v, err := loadConfig(configDir)
			if err != nil {
				return exitError(cmd, exitUserError, err.Error())
			}

			effective := make(map[string]map[string]kindConfig, len(types.Kinds()))
			for _, kind := range types.Kinds() {
				effective[string(kind)] = map[string]kindConfig{
					"backend": {
						Library:       v.GetString(cfgKeyLibrary(kind)),
						AllowFallback: v.GetBool(cfgKeyAllowFallback(kind)),
						WarnFallback:  v.GetBool(cfgKeyWarnFallback(kind)),
					},
				}
			}

			out, err := yaml.Marshal(effective)
			if err != nil {
				return exitError(cmd, exitSysError, fmt.Sprintf("encode config: %s", err))
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
