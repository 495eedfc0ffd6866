// internal/engine/brittleness.go
package engine

import (
	"strings"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/providers"
)

// fuzzyKeywordPassThreshold is the keyword fraction at or above which a
// fuzzy-tolerance response counts as passing.
const fuzzyKeywordPassThreshold = 0.5

// classifyBrittleness scores answer stability across all variation
// responses. Responses are grouped into equivalence classes by string
// equality of their normalized forms; a set of empty responses collapses
// into a single class and scores fully consistent.
func (e *Engine) classifyBrittleness(c *cases.Case, comps []providers.CompletionResult) cases.CaseResult {
	spec := c.Brittleness
	result := cases.NewCaseResult(c, comps[0].Model)
	total := len(comps)

	responses := make([]string, total)
	normalized := make([]string, total)
	clusters := map[string]int{}
	refusals := 0
	for i, comp := range comps {
		responses[i] = comp.Content
		normalized[i] = Normalize(comp.Content)
		clusters[normalized[i]]++
		if e.IsRefusal(comp.Content) {
			refusals++
		}
	}

	largest := 0
	for _, size := range clusters {
		if size > largest {
			largest = size
		}
	}
	result.SetNumber(cases.MetricConsistencyRate, float64(largest)/float64(total))
	result.SetNumber(cases.MetricUniqueAnswerCount, float64(len(clusters)))
	result.SetNumber(cases.MetricRefusalVariance, float64(refusals))

	switch spec.Mode() {
	case cases.ToleranceExact:
		want := Normalize(spec.ExpectedAnswer)
		hits := 0
		for _, n := range normalized {
			if n == want {
				hits++
			}
		}
		result.SetNumber(cases.MetricAccuracyRate, float64(hits)/float64(total))
	case cases.ToleranceFuzzy:
		passes := 0
		for _, response := range responses {
			if keywordFraction(response, spec.ExpectedKeywords) >= fuzzyKeywordPassThreshold {
				passes++
			}
		}
		result.SetNumber(cases.MetricKeywordFractionRate, float64(passes)/float64(total))
	}

	result.Details = &cases.Details{Responses: responses, AnswerClusters: clusters}
	return result
}

// keywordFraction reports what share of the expected keywords appear in
// the response, case-insensitively.
func keywordFraction(response string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lowered := strings.ToLower(response)
	found := 0
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}
