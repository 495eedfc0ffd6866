// internal/cli/list.go
package modeleval

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command, which shows the cases a run would
// execute without calling any provider.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured suites and their cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListCases(cmd, listSuitePaths)
	},
}

var listSuitePaths []string

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringSliceVar(&listSuitePaths, "suite", nil, "suite file to load (repeatable; overrides the config's suites)")
}
