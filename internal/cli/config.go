// Config loading for the crossbar CLI.
// Implements: prd010-configuration-directories (R1, R8);
//
//	docs/ARCHITECTURE § Configuration.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/crossbar/pkg/dispatch"
	"github.com/mesh-intelligence/crossbar/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// defaultLabel returns the built-in default backend label for the kind.
func defaultLabel(kind types.Kind) string {
	if kind == types.KindArray {
		return dispatch.DefaultArrayLabel
	}
	return dispatch.DefaultDataFrameLabel
}

// Config keys, namespaced per collection kind.
func cfgKeyLibrary(kind types.Kind) string       { return string(kind) + ".backend.library" }
func cfgKeyAllowFallback(kind types.Kind) string { return string(kind) + ".backend.allow-fallback" }
func cfgKeyWarnFallback(kind types.Kind) string  { return string(kind) + ".backend.warn-fallback" }

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Crossbar configuration.
# <kind>.backend.library selects the active backend for that kind.

dataframe:
  backend:
    library: native
    allow-fallback: true
    warn-fallback: true

array:
  backend:
    library: native
    allow-fallback: true
    warn-fallback: true
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. A missing config.yaml is not an error; the built-in defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	for _, kind := range types.Kinds() {
		v.SetDefault(cfgKeyLibrary(kind), defaultLabel(kind))
		v.SetDefault(cfgKeyAllowFallback(kind), true)
		v.SetDefault(cfgKeyWarnFallback(kind), true)
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// dispatchConfig turns the loaded viper configuration into the dispatch
// Config consumed by the router. The --backend flag overrides the DataFrame
// library selection for the invocation.
func dispatchConfig(v *viper.Viper) *dispatch.Config {
	cfg := dispatch.NewConfig()
	for _, kind := range types.Kinds() {
		if label := v.GetString(cfgKeyLibrary(kind)); label != "" {
			cfg.SetActiveBackend(kind, label)
		}
	}
	// The dispatch Config carries one pair of policy toggles; the CLI reads
	// them from the DataFrame namespace, the only kind its commands dispatch.
	cfg.SetAllowFallback(v.GetBool(cfgKeyAllowFallback(types.KindDataFrame)))
	cfg.SetWarnFallback(v.GetBool(cfgKeyWarnFallback(types.KindDataFrame)))

	if flags.backend != "" {
		cfg.SetActiveBackend(types.KindDataFrame, flags.backend)
	}
	return cfg
}

// writeConfigIfMissing creates a default config.yaml if the file does not
// exist in the config directory.
func writeConfigIfMissing(configDir string) (created bool, err error) {
	path := filepath.Join(configDir, configFileExt)

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
