// internal/cli/compare_entry_test.go
package modeleval

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/runner"
	"github.com/mwiater/modeleval/internal/summary"
)

// seedSnapshot folds one hallucination result and persists the snapshot
// into the config's results directory.
func seedSnapshot(t *testing.T, cfg *appconfig.Config) {
	t.Helper()

	c := cases.Case{ID: "founding-year", Family: cases.FamilyHallucination}
	result := cases.NewCaseResult(&c, "mock-model")
	result.SetBool(cases.MetricSafe, true)
	result.SetBool(cases.MetricHasHallucination, false)

	collector := summary.NewCollector()
	if err := collector.Record(result); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if err := os.MkdirAll(cfg.ResultsPath(), 0o755); err != nil {
		t.Fatalf("create results dir: %v", err)
	}
	path := filepath.Join(cfg.ResultsPath(), snapshotFile)
	if err := summary.SaveSnapshot(path, collector.Snapshot("run-test", time.Now().UTC())); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
}

// seedResultsFile writes one structured-output result line to the model's
// JSONL file without touching the snapshot.
func seedResultsFile(t *testing.T, cfg *appconfig.Config) {
	t.Helper()

	c := cases.Case{ID: "person-simple", Family: cases.FamilyStructuredOutput}
	result := cases.NewCaseResult(&c, "jsonl-model")
	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	result.SetBool(cases.MetricValidJSON, true)
	result.SetBool(cases.MetricSchemaValid, true)

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := os.MkdirAll(cfg.ResultsPath(), 0o755); err != nil {
		t.Fatalf("create results dir: %v", err)
	}
	path := runner.ResultsFile(cfg.ResultsPath(), "jsonl-model")
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		t.Fatalf("write results file: %v", err)
	}
}

func TestRunCompareRequiresConfig(t *testing.T) {
	currentConfig = nil
	cmd, _ := newTestCommand()
	if err := runCompare(cmd, false); err == nil {
		t.Fatal("expected error when configuration is not loaded")
	}
}

func TestRunCompareFromSnapshot(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}
	seedSnapshot(t, cfg)
	currentConfig = cfg
	defer func() { currentConfig = nil }()

	cmd, b := newTestCommand()
	if err := runCompare(cmd, false); err != nil {
		t.Fatalf("runCompare error: %v", err)
	}

	out := b.String()
	if !strings.Contains(out, "mock-model") {
		t.Fatalf("expected model row, got:\n%s", out)
	}
	if !strings.Contains(out, "hallucination") {
		t.Fatalf("expected family section, got:\n%s", out)
	}
}

func TestRunCompareNoResults(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}
	currentConfig = cfg
	defer func() { currentConfig = nil }()

	cmd, _ := newTestCommand()
	err := runCompare(cmd, false)
	if err == nil || !strings.Contains(err.Error(), "no recorded results") {
		t.Fatalf("expected no-results error, got %v", err)
	}
}

func TestLoadAggregatePrefersSnapshot(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}
	seedSnapshot(t, cfg)
	seedResultsFile(t, cfg)

	sum, runID, err := loadAggregate(cfg, false)
	if err != nil {
		t.Fatalf("loadAggregate error: %v", err)
	}
	if runID != "run-test" {
		t.Fatalf("expected snapshot run id, got %q", runID)
	}
	models := sum.Models()
	if len(models) != 1 || models[0] != "mock-model" {
		t.Fatalf("expected snapshot models only, got %v", models)
	}
}

func TestLoadAggregateRebuildsFromResults(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}
	seedSnapshot(t, cfg)
	seedResultsFile(t, cfg)

	sum, runID, err := loadAggregate(cfg, true)
	if err != nil {
		t.Fatalf("loadAggregate error: %v", err)
	}
	if runID != "" {
		t.Fatalf("expected empty run id for a rebuild, got %q", runID)
	}
	models := sum.Models()
	if len(models) != 1 || models[0] != "jsonl-model" {
		t.Fatalf("expected refolded models, got %v", models)
	}
	rate, ok := sum.Rate("jsonl-model", cases.FamilyStructuredOutput, cases.MetricSchemaValid)
	if !ok || rate != 1 {
		t.Fatalf("expected schema_valid rate 1, got %v %v", rate, ok)
	}
}

func TestLoadAggregateFallsBackWithoutSnapshot(t *testing.T) {
	cfg := &appconfig.Config{ResultsDir: t.TempDir()}
	seedResultsFile(t, cfg)

	sum, _, err := loadAggregate(cfg, false)
	if err != nil {
		t.Fatalf("loadAggregate error: %v", err)
	}
	models := sum.Models()
	if len(models) != 1 || models[0] != "jsonl-model" {
		t.Fatalf("expected results fallback, got %v", models)
	}
}
