// internal/report/report_test.go

package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/costs"
	"github.com/mwiater/modeleval/internal/summary"
)

func fold(t *testing.T, sum *summary.Summary, model string, family cases.Family, caseID string, metrics map[string]float64) {
	t.Helper()
	r := cases.CaseResult{CaseID: caseID, Family: family, Model: model, Metrics: metrics}
	if err := sum.Fold(r); err != nil {
		t.Fatalf("fold %s/%s: %v", model, caseID, err)
	}
}

// foldedSummary covers two models in the hallucination family and one in
// structured output, leaving several metrics unobserved on purpose.
func foldedSummary(t *testing.T) *summary.Summary {
	t.Helper()
	sum := summary.New()
	fold(t, sum, "mock-a", cases.FamilyHallucination, "h1", map[string]float64{
		cases.MetricSafe:             1,
		cases.MetricHasHallucination: 0,
		cases.MetricExactMatch:       1,
		cases.MetricIsRefusal:        0,
	})
	fold(t, sum, "mock-a", cases.FamilyHallucination, "h2", map[string]float64{
		cases.MetricSafe:             0,
		cases.MetricHasHallucination: 1,
	})
	fold(t, sum, "mock-b", cases.FamilyHallucination, "h1", map[string]float64{
		cases.MetricSafe: 1,
	})
	fold(t, sum, "mock-a", cases.FamilyStructuredOutput, "s1", map[string]float64{
		cases.MetricValidJSON:      1,
		cases.MetricSchemaValid:    0,
		cases.MetricViolationCount: 2,
		cases.MetricRetrySuccess:   1,
	})
	return sum
}

func TestBuildComparison(t *testing.T) {
	t.Parallel()

	comp := Build(foldedSummary(t), nil, "run-123")

	if comp.RunID != "run-123" {
		t.Fatalf("expected run id run-123, got %q", comp.RunID)
	}
	if comp.GeneratedAt.IsZero() {
		t.Fatal("expected a generation timestamp")
	}
	if comp.Costs != nil {
		t.Fatal("expected no cost section without a cost report")
	}
	if len(comp.Families) != 2 {
		t.Fatalf("expected 2 family sections, got %d", len(comp.Families))
	}
	if comp.Families[0].Family != cases.FamilyHallucination {
		t.Fatalf("expected hallucination first, got %s", comp.Families[0].Family)
	}
	if comp.Families[1].Family != cases.FamilyStructuredOutput {
		t.Fatalf("expected structured-output second, got %s", comp.Families[1].Family)
	}

	hall := comp.Families[0]
	if len(hall.Rows) != 2 {
		t.Fatalf("expected 2 hallucination rows, got %d", len(hall.Rows))
	}
	if hall.Rows[0].Model != "mock-a" || hall.Rows[1].Model != "mock-b" {
		t.Fatalf("expected sorted models, got %s then %s", hall.Rows[0].Model, hall.Rows[1].Model)
	}
	if hall.Rows[0].Cases != 2 {
		t.Fatalf("expected mock-a to cover 2 cases, got %d", hall.Rows[0].Cases)
	}
	if hall.Rows[1].Cases != 1 {
		t.Fatalf("expected mock-b to cover 1 case, got %d", hall.Rows[1].Cases)
	}

	safe := hall.Rows[0].Rates[cases.MetricSafe]
	if safe == nil {
		t.Fatal("expected a safe rate for mock-a")
	}
	if *safe != 0.5 {
		t.Fatalf("expected safe rate 0.5, got %v", *safe)
	}
	if hall.Rows[0].Rates[cases.MetricRefusalIsGood] != nil {
		t.Fatal("unobserved metric must stay absent, not zero")
	}
	if hall.Kinds[cases.MetricSafe] != "bool" {
		t.Fatalf("expected safe to be a bool metric, got %q", hall.Kinds[cases.MetricSafe])
	}

	structured := comp.Families[1]
	if len(structured.Rows) != 1 {
		t.Fatalf("expected only mock-a in structured-output, got %d rows", len(structured.Rows))
	}
	if structured.Kinds[cases.MetricViolationCount] != "number" {
		t.Fatalf("expected violation_count to be a number metric, got %q", structured.Kinds[cases.MetricViolationCount])
	}
	retry := structured.Rows[0].Rates[cases.MetricRetrySuccess]
	if retry == nil || *retry != 1 {
		t.Fatalf("expected retry_success rate 1, got %v", retry)
	}
}

func TestBuildAttachesCosts(t *testing.T) {
	t.Parallel()

	rep := costs.NewReport()
	rep.Add(costs.NewRecord("mock-a", cases.FamilyHallucination, "h1", 100, 50, 0))

	comp := Build(foldedSummary(t), rep, "")
	if comp.Costs == nil {
		t.Fatal("expected a cost section")
	}
	if comp.Costs.Totals.Calls != 1 {
		t.Fatalf("expected 1 call in cost totals, got %d", comp.Costs.Totals.Calls)
	}
	if comp.Costs.Totals.InputTokens != 100 {
		t.Fatalf("expected 100 input tokens, got %d", comp.Costs.Totals.InputTokens)
	}
}

func TestFormatRate(t *testing.T) {
	t.Parallel()

	half := 0.5
	two := 2.0
	tests := []struct {
		name   string
		family cases.Family
		metric string
		rate   *float64
		want   string
	}{
		{"bool as percent", cases.FamilyHallucination, cases.MetricSafe, &half, "50.0%"},
		{"number plain", cases.FamilyStructuredOutput, cases.MetricViolationCount, &two, "2.00"},
		{"absent as dash", cases.FamilyHallucination, cases.MetricSafe, nil, "—"},
		{"rate-valued number", cases.FamilyBrittleness, cases.MetricConsistencyRate, &half, "0.50"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatRate(tt.family, tt.metric, tt.rate); got != tt.want {
				t.Fatalf("FormatRate(%s, %s) = %q, want %q", tt.family, tt.metric, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	rep := costs.NewReport()
	rep.Add(costs.NewRecord("mock-a", cases.FamilyHallucination, "h1", 100, 50, 0))
	md := Build(foldedSummary(t), rep, "run-123").Markdown()

	for _, want := range []string{
		"# Model Comparison",
		"Run: run-123",
		"## hallucination",
		"## structured-output",
		"| Model | Cases | exact_match |",
		"| mock-a | 2 |",
		"| mock-b | 1 |",
		"50.0%",
		"—",
		"## Costs",
		"- **API Calls:** 1",
		"| mock-a | 1 | 100 | 50 | $0.0000 |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	rep := costs.NewReport()
	rep.Add(costs.NewRecord("mock-a", cases.FamilyHallucination, "h1", 100, 50, 0))
	out := Build(foldedSummary(t), rep, "").Terminal()

	for _, want := range []string{"hallucination", "mock-a", "mock-b", "50.0%", "total $0.0000 across 1 calls"} {
		if !strings.Contains(out, want) {
			t.Fatalf("terminal output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Build(foldedSummary(t), nil, "run-123").JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var comp Comparison
	if err := json.Unmarshal(data, &comp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if comp.RunID != "run-123" {
		t.Fatalf("expected run id run-123, got %q", comp.RunID)
	}
	if len(comp.Families) != 2 {
		t.Fatalf("expected 2 families after round trip, got %d", len(comp.Families))
	}
	safe := comp.Families[0].Rows[0].Rates[cases.MetricSafe]
	if safe == nil || *safe != 0.5 {
		t.Fatalf("expected safe rate 0.5 after round trip, got %v", safe)
	}
	if _, ok := comp.Families[0].Rows[0].Rates[cases.MetricRefusalIsGood]; ok {
		t.Fatal("unobserved metric must not survive the round trip")
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	rep := costs.NewReport()
	rep.Add(costs.NewRecord("mock-a", cases.FamilyHallucination, "h1", 100, 50, 0))
	page, err := Build(foldedSummary(t), rep, "run-123").HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"modeleval: Behavioral Evaluation Report",
		"headlineChart",
		"costsTable",
		`"families":`,
		"mock-a",
		"run-123",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}
