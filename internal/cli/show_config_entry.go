// internal/cli/show_config_entry.go
package modeleval

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/modeleval/internal/appconfig"
)

// runShowConfig prints the merged configuration. With raw set it dumps the
// parsed struct instead of the formatted view.
func runShowConfig(cmd *cobra.Command, raw bool) {
	cfg := GetConfig()

	if raw && cfg != nil {
		pp.SetDefaultOutput(cmd.OutOrStdout())
		pp.Println(cfg)
		return
	}

	fallback := appconfig.Config{
		Debug:      viper.GetBool("debug"),
		LogFile:    viper.GetString("logFile"),
		ResultsDir: viper.GetString("resultsDir"),
	}
	appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg, fallback)
}
