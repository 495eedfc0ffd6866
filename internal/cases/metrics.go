// internal/cases/metrics.go
package cases

import "github.com/mwiater/modeleval/internal/schema"

// Metric names. Each belongs to exactly one family; the aggregator rejects
// results carrying a name outside the owning family's registry.
const (
	MetricIsRefusal          = "is_refusal"
	MetricExactMatch         = "exact_match"
	MetricHasHallucination   = "has_hallucination"
	MetricSafe               = "safe"
	MetricRefusalIsGood      = "refusal_is_good"
	MetricSemanticSimilarity = "semantic_similarity"

	MetricConsistencyRate     = "consistency_rate"
	MetricUniqueAnswerCount   = "unique_answer_count"
	MetricAccuracyRate        = "accuracy_rate"
	MetricKeywordFractionRate = "keyword_fraction_rate"
	MetricRefusalVariance     = "refusal_variance"

	MetricValidJSON      = "valid_json"
	MetricSchemaValid    = "schema_valid"
	MetricViolationCount = "violation_count"
	MetricRetrySuccess   = "retry_success"

	MetricToolSelectedCorrect = "tool_selected_correct"
	MetricParameterAccuracy   = "parameter_accuracy"
	MetricBothCorrect         = "both_correct"
)

// MetricKind separates pass/fail measurements from averaged quantities.
// Both fold the same way; reports format them differently.
type MetricKind int

const (
	KindBool MetricKind = iota
	KindNumber
)

var familyMetrics = map[Family]map[string]MetricKind{
	FamilyHallucination: {
		MetricIsRefusal:          KindBool,
		MetricExactMatch:         KindBool,
		MetricHasHallucination:   KindBool,
		MetricSafe:               KindBool,
		MetricRefusalIsGood:      KindBool,
		MetricSemanticSimilarity: KindNumber,
	},
	FamilyBrittleness: {
		MetricConsistencyRate:     KindNumber,
		MetricUniqueAnswerCount:   KindNumber,
		MetricAccuracyRate:        KindNumber,
		MetricKeywordFractionRate: KindNumber,
		MetricRefusalVariance:     KindNumber,
	},
	FamilyStructuredOutput: {
		MetricValidJSON:      KindBool,
		MetricSchemaValid:    KindBool,
		MetricViolationCount: KindNumber,
		MetricRetrySuccess:   KindBool,
	},
	FamilyToolUse: {
		MetricToolSelectedCorrect: KindBool,
		MetricParameterAccuracy:   KindNumber,
		MetricBothCorrect:         KindBool,
	},
}

// MetricKeys returns every metric name the family's classifier may emit,
// optional ones included.
func (f Family) MetricKeys() []string {
	keys := make([]string, 0, len(familyMetrics[f]))
	for _, name := range orderedMetrics {
		if _, ok := familyMetrics[f][name]; ok {
			keys = append(keys, name)
		}
	}
	return keys
}

// AllowsMetric reports whether the family's classifier may emit the name.
func (f Family) AllowsMetric(name string) bool {
	_, ok := familyMetrics[f][name]
	return ok
}

// MetricKindOf returns the kind of a metric name within a family; the
// second return is false for names the family does not own.
func MetricKindOf(f Family, name string) (MetricKind, bool) {
	kind, ok := familyMetrics[f][name]
	return kind, ok
}

// orderedMetrics fixes the presentation order of metric columns.
var orderedMetrics = []string{
	MetricExactMatch,
	MetricHasHallucination,
	MetricSafe,
	MetricIsRefusal,
	MetricRefusalIsGood,
	MetricSemanticSimilarity,
	MetricConsistencyRate,
	MetricUniqueAnswerCount,
	MetricAccuracyRate,
	MetricKeywordFractionRate,
	MetricRefusalVariance,
	MetricValidJSON,
	MetricSchemaValid,
	MetricViolationCount,
	MetricRetrySuccess,
	MetricToolSelectedCorrect,
	MetricParameterAccuracy,
	MetricBothCorrect,
}

// CaseResult is the classification outcome for one case against one model.
// Boolean metrics are materialized as 0/1; optional metrics are simply
// absent from the map when unmeasured.
type CaseResult struct {
	Timestamp string             `json:"timestamp,omitempty"`
	CaseID    string             `json:"caseId"`
	Family    Family             `json:"family"`
	Model     string             `json:"model"`
	Metrics   map[string]float64 `json:"metrics"`
	Details   *Details           `json:"details,omitempty"`
}

// Details carries optional diagnostics alongside the metrics.
type Details struct {
	Responses       []string           `json:"responses,omitempty"`
	ParseError      string             `json:"parseError,omitempty"`
	Violations      []schema.Violation `json:"violations,omitempty"`
	RetryViolations []schema.Violation `json:"retryViolations,omitempty"`
	AnswerClusters  map[string]int     `json:"answerClusters,omitempty"`
	SelectedTool    string             `json:"selectedTool,omitempty"`
	SuppliedArgs    map[string]any     `json:"suppliedArgs,omitempty"`
}

// NewCaseResult prepares an empty result for the given case and model.
func NewCaseResult(c *Case, model string) CaseResult {
	return CaseResult{
		CaseID:  c.ID,
		Family:  c.Family,
		Model:   model,
		Metrics: map[string]float64{},
	}
}

// SetBool records a boolean metric as 0 or 1.
func (r *CaseResult) SetBool(name string, v bool) {
	if v {
		r.Metrics[name] = 1
	} else {
		r.Metrics[name] = 0
	}
}

// SetNumber records a numeric metric.
func (r *CaseResult) SetNumber(name string, v float64) {
	r.Metrics[name] = v
}

// Bool reads a boolean metric; ok is false when the metric is absent.
func (r *CaseResult) Bool(name string) (value, ok bool) {
	v, present := r.Metrics[name]
	return v != 0, present
}

// Number reads a numeric metric; ok is false when the metric is absent.
func (r *CaseResult) Number(name string) (float64, bool) {
	v, present := r.Metrics[name]
	return v, present
}
