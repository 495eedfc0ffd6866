// internal/cli/run_entry.go
package modeleval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/costs"
	"github.com/mwiater/modeleval/internal/engine"
	"github.com/mwiater/modeleval/internal/logging"
	"github.com/mwiater/modeleval/internal/providerfactory"
	"github.com/mwiater/modeleval/internal/providers"
	"github.com/mwiater/modeleval/internal/report"
	"github.com/mwiater/modeleval/internal/runner"
	"github.com/mwiater/modeleval/internal/semantic"
	"github.com/mwiater/modeleval/internal/summary"
)

var passText = color.New(color.FgGreen).SprintFunc()
var failText = color.New(color.FgRed).SprintFunc()

// snapshotFile is the summary snapshot name inside the results directory.
const snapshotFile = "summary.json"

func runEvaluations(cmd *cobra.Command, args []string, suitePaths []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration is not loaded")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	families, err := parseFamilies(args)
	if err != nil {
		return err
	}

	suites, err := loadConfiguredSuites(cfg, suitePaths)
	if err != nil {
		return err
	}

	selected := runner.SelectCases(suites, families)
	if len(selected) == 0 {
		return fmt.Errorf("no cases matched the requested families")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	eng := engine.New(engine.Config{
		RefusalMarkers: cfg.RefusalMarkers,
		Similarity:     similarityFunc(ctx, cfg),
	})
	collector := summary.NewCollector()
	costReport := costs.NewReport()

	providerList, err := providerfactory.All(cfg)
	if err != nil {
		return err
	}
	defer providerfactory.CloseAll(providerList)

	r := runner.New(cfg, eng, collector, costReport)

	logging.LogEvent("running %d cases against %d providers", len(selected), len(providerList))

	var wg sync.WaitGroup
	var mu sync.Mutex
	stats := make(map[string]runner.RunStats)
	var firstErr error
	for _, p := range providerList {
		wg.Add(1)
		go func(p providers.Provider) {
			defer wg.Done()
			s, runErr := r.Run(ctx, p, selected)
			mu.Lock()
			defer mu.Unlock()
			stats[p.Name()] = s
			if runErr != nil {
				logging.LogEvent("provider %s aborted: %v", p.Name(), runErr)
				if firstErr == nil {
					firstErr = runErr
				}
			}
		}(p)
	}
	wg.Wait()

	for _, p := range providerList {
		s := stats[p.Name()]
		line := fmt.Sprintf("%s (%s): %d completed, %d errored", p.Name(), s.Model, s.Completed, s.Errored)
		if s.Errored == 0 && s.Completed > 0 {
			cmd.Println(passText(line))
		} else {
			cmd.Println(failText(line))
		}
	}

	runID := uuid.NewString()
	if err := os.MkdirAll(cfg.ResultsPath(), 0755); err != nil {
		return fmt.Errorf("error creating results directory: %w", err)
	}
	snapshotPath := filepath.Join(cfg.ResultsPath(), snapshotFile)
	if err := summary.SaveSnapshot(snapshotPath, collector.Snapshot(runID, time.Now().UTC())); err != nil {
		return err
	}
	cmd.Printf("\nSummary snapshot written to %s (run %s)\n\n", snapshotPath, runID)

	cmd.Print(report.Build(collector.Summary(), costReport, runID).Terminal())

	return firstErr
}

// parseFamilies validates the family arguments; an empty list selects all.
func parseFamilies(args []string) ([]cases.Family, error) {
	families := make([]cases.Family, 0, len(args))
	for _, arg := range args {
		family, err := cases.ParseFamily(arg)
		if err != nil {
			return nil, err
		}
		families = append(families, family)
	}
	return families, nil
}

// loadConfiguredSuites resolves the suite list: an explicit override wins,
// then the config's suites, then the built-in default suite.
func loadConfiguredSuites(cfg *appconfig.Config, override []string) ([]cases.Suite, error) {
	paths := override
	if len(paths) == 0 {
		paths = cfg.Suites
	}
	if len(paths) == 0 {
		return []cases.Suite{cases.DefaultSuite()}, nil
	}
	return cases.LoadSuites(paths)
}

// similarityFunc wires the optional embedding scorer into the engine.
func similarityFunc(ctx context.Context, cfg *appconfig.Config) func(a, b string) (float64, error) {
	if !cfg.Semantic.Enabled {
		return nil
	}
	return semantic.New(cfg.Semantic, cfg.RequestTimeout()).Func(ctx)
}
