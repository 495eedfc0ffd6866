// internal/cli/view.go
package modeleval

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/modeleval/internal/tui"
)

// viewCmd represents the view command, which opens the interactive
// results browser over the persisted run output.
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse recorded case results interactively",
	Long: `View opens a terminal browser over the results directory. Pick a model to
see its recorded cases, then pick a case to inspect its metrics, responses,
and schema violations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not loaded")
		}
		return tui.Browse(cfg.ResultsPath())
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
