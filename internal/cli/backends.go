// Implements: prd009-crossbar-cli (R3: backends listing).
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// backendInfo is the JSON-mode record for one registered backend.
type backendInfo struct {
	Kind       string   `json:"kind"`
	Label      string   `json:"label"`
	Default    bool     `json:"default"`
	Fallback   string   `json:"fallback,omitempty"`
	Operations []string `json:"operations"`
}

func newBackendsCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Long:  "List the registered backends per collection kind, with their fallback and operations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newDefaultRegistry()
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}

			kinds := types.Kinds()
			if kindFlag != "" {
				k := types.Kind(kindFlag)
				if !k.Valid() {
					return exitError(cmd, exitUserError, fmt.Sprintf("unknown collection kind %q", kindFlag))
				}
				kinds = []types.Kind{k}
			}

			var infos []backendInfo
			for _, kind := range kinds {
				for _, label := range reg.Labels(kind) {
					impl, err := reg.Resolve(kind, label)
					if err != nil {
						return exitError(cmd, exitSysError, err.Error())
					}
					infos = append(infos, backendInfo{
						Kind:       string(kind),
						Label:      label,
						Default:    label == reg.DefaultLabel(kind),
						Fallback:   impl.Fallback(),
						Operations: impl.OperationNames(),
					})
				}
			}

			if flags.jsonMode {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			for _, info := range infos {
				marker := " "
				if info.Default {
					marker = "*"
				}
				fallback := "-"
				if info.Fallback != "" {
					fallback = info.Fallback
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %-8s fallback=%-8s %s\n",
					marker, info.Kind, info.Label, fallback, strings.Join(info.Operations, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "restrict to one collection kind (dataframe or array)")
	return cmd
}
