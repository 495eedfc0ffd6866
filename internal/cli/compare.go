// internal/cli/compare.go
package modeleval

import (
	"github.com/spf13/cobra"
)

// compareCmd represents the compare command, which prints a model
// comparison table from persisted results.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare models from persisted results",
	Long: `Compare reads the summary snapshot written by 'run' and prints one
comparison table per behavior family, models as rows. Pass --from-results to
rebuild the aggregate from the per-model results files instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, compareFromResults)
	},
}

var compareFromResults bool

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().BoolVar(&compareFromResults, "from-results", false, "refold the per-model results files instead of reading the snapshot")
}
