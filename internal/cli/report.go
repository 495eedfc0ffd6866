// internal/cli/report.go
package modeleval

import (
	"github.com/spf13/cobra"
)

// reportCmd represents the report command, which renders persisted results
// into shareable files.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write comparison reports from persisted results",
	Long: `Report renders the persisted aggregate into files: a standalone HTML
dashboard, a markdown comparison, or a raw JSON export. With no flags an HTML
report is written to reports/eval-report.html.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, reportOpts)
	},
}

// reportOptions collects the report command's flag values.
type reportOptions struct {
	htmlPath     string
	markdownPath string
	jsonPath     string
	fromResults  bool
}

var reportOpts reportOptions

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportOpts.htmlPath, "html", "", "write the HTML dashboard to this path")
	reportCmd.Flags().StringVar(&reportOpts.markdownPath, "markdown", "", "write the markdown comparison to this path")
	reportCmd.Flags().StringVar(&reportOpts.jsonPath, "json", "", "write the JSON export to this path")
	reportCmd.Flags().BoolVar(&reportOpts.fromResults, "from-results", false, "refold the per-model results files instead of reading the snapshot")
}
