// internal/cli/run.go
package modeleval

import (
	"github.com/spf13/cobra"
)

// runCmd represents the run command, which executes evaluation suites
// against every configured provider.
var runCmd = &cobra.Command{
	Use:   "run [family ...]",
	Short: "Run evaluation suites against the configured providers",
	Long: `Run loads the configured suites (or the built-in default suite), selects
cases by the requested behavior families, and evaluates them against every
configured provider concurrently. Results are appended per model under the
results directory and a summary snapshot is written at the end.

With no arguments every family runs. Valid families: hallucination,
brittleness, structured-output, tool-use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluations(cmd, args, runSuitePaths)
	},
}

var runSuitePaths []string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&runSuitePaths, "suite", nil, "suite file to load (repeatable; overrides the config's suites)")
}
