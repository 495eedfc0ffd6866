// internal/cli/compare_entry.go
package modeleval

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/logging"
	"github.com/mwiater/modeleval/internal/report"
	"github.com/mwiater/modeleval/internal/runner"
	"github.com/mwiater/modeleval/internal/summary"
)

func runCompare(cmd *cobra.Command, fromResults bool) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration is not loaded")
	}

	sum, runID, err := loadAggregate(cfg, fromResults)
	if err != nil {
		return err
	}
	if len(sum.Models()) == 0 {
		return fmt.Errorf("no recorded results to compare")
	}

	cmd.Print(report.Build(sum, nil, runID).Terminal())
	return nil
}

// loadAggregate reads the saved snapshot, or refolds every results file when
// rebuild is set or no snapshot exists yet.
func loadAggregate(cfg *appconfig.Config, rebuild bool) (*summary.Summary, string, error) {
	if !rebuild {
		snap, err := summary.LoadSnapshot(filepath.Join(cfg.ResultsPath(), snapshotFile))
		if err == nil {
			return summary.FromSnapshot(snap), snap.RunID, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", err
		}
	}

	byModel, _, err := runner.LoadResults(cfg.ResultsPath())
	if err != nil {
		return nil, "", err
	}
	sum := summary.New()
	for _, results := range byModel {
		for _, result := range results {
			if err := sum.Fold(result); err != nil {
				logging.LogEvent("skipping result %s/%s: %v", result.Model, result.CaseID, err)
			}
		}
	}
	return sum, "", nil
}
