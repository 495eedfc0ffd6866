// internal/summary/summary_test.go
package summary

import (
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/mwiater/modeleval/internal/cases"
)

func boolResult(model, caseID string, safe bool) cases.CaseResult {
	r := cases.CaseResult{
		CaseID:  caseID,
		Family:  cases.FamilyHallucination,
		Model:   model,
		Metrics: map[string]float64{},
	}
	r.SetBool(cases.MetricSafe, safe)
	return r
}

func numericResult(model, caseID string, consistency float64) cases.CaseResult {
	r := cases.CaseResult{
		CaseID:  caseID,
		Family:  cases.FamilyBrittleness,
		Model:   model,
		Metrics: map[string]float64{},
	}
	r.SetNumber(cases.MetricConsistencyRate, consistency)
	return r
}

func mustFold(t *testing.T, s *Summary, results ...cases.CaseResult) {
	t.Helper()
	for _, r := range results {
		if err := s.Fold(r); err != nil {
			t.Fatalf("fold: %v", err)
		}
	}
}

// TestFoldBooleanContributions verifies booleans land as 1/1 or 0/1 and
// average into a pass rate.
func TestFoldBooleanContributions(t *testing.T) {
	t.Parallel()

	s := New()
	mustFold(t, s,
		boolResult("m1", "a", true),
		boolResult("m1", "b", true),
		boolResult("m1", "c", false),
	)

	num, den := s.Counts("m1", cases.FamilyHallucination, cases.MetricSafe)
	if num != 2 || den != 3 {
		t.Errorf("counts = %v/%v, want 2/3", num, den)
	}
	rate, ok := s.Rate("m1", cases.FamilyHallucination, cases.MetricSafe)
	if !ok || rate != 2.0/3.0 {
		t.Errorf("rate = %v, %v; want 2/3, true", rate, ok)
	}
}

func TestFoldNumericContributions(t *testing.T) {
	t.Parallel()

	s := New()
	mustFold(t, s,
		numericResult("m1", "a", 1.0),
		numericResult("m1", "b", 0.5),
	)

	rate, ok := s.Rate("m1", cases.FamilyBrittleness, cases.MetricConsistencyRate)
	if !ok || rate != 0.75 {
		t.Errorf("rate = %v, %v; want 0.75, true", rate, ok)
	}
}

// TestRateAbsentWithoutObservations pins the reporting contract: a rate
// with a zero denominator is absent, never 0.0.
func TestRateAbsentWithoutObservations(t *testing.T) {
	t.Parallel()

	s := New()
	if rate, ok := s.Rate("m1", cases.FamilyToolUse, cases.MetricBothCorrect); ok {
		t.Errorf("expected absent rate, got %v", rate)
	}
}

func TestFoldRejectsUnknownMetric(t *testing.T) {
	t.Parallel()

	r := boolResult("m1", "a", true)
	r.Metrics[cases.MetricValidJSON] = 1 // structured-output metric on a hallucination result

	s := New()
	if err := s.Fold(r); err == nil {
		t.Fatalf("expected error for foreign metric key")
	}
	if len(s.Counters) != 0 {
		t.Errorf("rejected fold must not leave partial counters, got %v", s.Counters)
	}
}

func TestFoldRejectsUnknownFamily(t *testing.T) {
	t.Parallel()

	r := cases.CaseResult{CaseID: "a", Family: "reasoning", Model: "m1", Metrics: map[string]float64{}}
	if err := New().Fold(r); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

// TestMergeEquivalentToSequentialFolds verifies the fold/merge algebra:
// folding one-by-one equals merging partial summaries, and merge is
// commutative and associative.
func TestMergeEquivalentToSequentialFolds(t *testing.T) {
	t.Parallel()

	a := boolResult("m1", "a", true)
	b := boolResult("m1", "b", false)
	c := numericResult("m2", "c", 0.5)

	sequential := New()
	mustFold(t, sequential, a, b, c)

	p1 := New()
	mustFold(t, p1, a)
	p2 := New()
	mustFold(t, p2, b)
	p3 := New()
	mustFold(t, p3, c)

	merged := Merge(Merge(p1, p2), p3)
	if !reflect.DeepEqual(sequential.Counters, merged.Counters) {
		t.Errorf("sequential folds != merged partials:\n%v\n%v", sequential.Counters, merged.Counters)
	}

	commuted := Merge(p3, Merge(p2, p1))
	if !reflect.DeepEqual(merged.Counters, commuted.Counters) {
		t.Errorf("merge not commutative:\n%v\n%v", merged.Counters, commuted.Counters)
	}

	reassociated := Merge(p1, Merge(p2, p3))
	if !reflect.DeepEqual(merged.Counters, reassociated.Counters) {
		t.Errorf("merge not associative:\n%v\n%v", merged.Counters, reassociated.Counters)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	s := New()
	mustFold(t, s,
		boolResult("m1", "a", true),
		numericResult("m2", "b", 0.25),
	)

	path := filepath.Join(t.TempDir(), "summary.json")
	snap := s.Snapshot("run-123", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := SaveSnapshot(path, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != "run-123" {
		t.Errorf("runId = %q, want run-123", loaded.RunID)
	}
	restored := FromSnapshot(loaded)
	if !reflect.DeepEqual(s.Counters, restored.Counters) {
		t.Errorf("round trip lost counters:\n%v\n%v", s.Counters, restored.Counters)
	}
}

func TestSummaryListings(t *testing.T) {
	t.Parallel()

	s := New()
	mustFold(t, s,
		boolResult("zeta", "a", true),
		numericResult("alpha", "b", 1.0),
	)

	models := s.Models()
	if !reflect.DeepEqual(models, []string{"alpha", "zeta"}) {
		t.Errorf("models = %v, want [alpha zeta]", models)
	}
	families := s.FamiliesObserved()
	if !reflect.DeepEqual(families, []cases.Family{cases.FamilyHallucination, cases.FamilyBrittleness}) {
		t.Errorf("families = %v", families)
	}
}

// TestCollectorConcurrentRecords hammers the collector from several
// goroutines and checks the final counters.
func TestCollectorConcurrentRecords(t *testing.T) {
	t.Parallel()

	collector := NewCollector()
	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if err := collector.Record(boolResult("m1", "case", true)); err != nil {
					t.Errorf("record: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	num, den := collector.Summary().Counts("m1", cases.FamilyHallucination, cases.MetricSafe)
	if num != workers*perWorker || den != workers*perWorker {
		t.Errorf("counts = %v/%v, want %d/%d", num, den, workers*perWorker, workers*perWorker)
	}
}
