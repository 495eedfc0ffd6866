// internal/cli/report_entry.go
package modeleval

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwiater/modeleval/internal/report"
	"github.com/mwiater/modeleval/internal/util"
)

// defaultHTMLReportPath is used when no output flag is given.
const defaultHTMLReportPath = "reports/eval-report.html"

func runReport(cmd *cobra.Command, opts reportOptions) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration is not loaded")
	}

	sum, runID, err := loadAggregate(cfg, opts.fromResults)
	if err != nil {
		return err
	}
	if len(sum.Models()) == 0 {
		return fmt.Errorf("no recorded results to report")
	}

	comparison := report.Build(sum, nil, runID)

	if opts.markdownPath != "" {
		if err := writeReportFile(opts.markdownPath, []byte(comparison.Markdown())); err != nil {
			return err
		}
		cmd.Printf("Markdown report written to %s\n", opts.markdownPath)
	}

	if opts.jsonPath != "" {
		data, err := comparison.JSON()
		if err != nil {
			return err
		}
		if err := writeReportFile(opts.jsonPath, data); err != nil {
			return err
		}
		cmd.Printf("JSON report written to %s\n", opts.jsonPath)
	}

	htmlPath := opts.htmlPath
	if htmlPath == "" && opts.markdownPath == "" && opts.jsonPath == "" {
		htmlPath = defaultHTMLReportPath
	}
	if htmlPath != "" {
		page, err := comparison.HTML()
		if err != nil {
			return fmt.Errorf("failed generating HTML report: %w", err)
		}
		if err := writeReportFile(htmlPath, []byte(page)); err != nil {
			return err
		}
		cmd.Printf("Report written to %s\n", htmlPath)
	}

	return nil
}

// writeReportFile creates the parent directory as needed and writes the file.
func writeReportFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", path, err)
		}
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write report %s: %w", path, err)
	}
	return nil
}
