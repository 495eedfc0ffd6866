// internal/cli/show_config.go
package modeleval

import (
	"github.com/spf13/cobra"
)

// showConfigCmd displays the effective configuration after file values and
// flag overrides are merged.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the YAML config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		runShowConfig(cmd, showConfigRaw)
	},
}

var showConfigRaw bool

func init() {
	showCmd.AddCommand(showConfigCmd)
	showConfigCmd.Flags().BoolVar(&showConfigRaw, "raw", false, "dump the full parsed configuration struct")
}
