// internal/engine/tooluse_test.go
package engine

import (
	"testing"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/providers"
)

func weatherCase(rule cases.MatchRule) cases.Case {
	return cases.Case{
		ID:      "weather",
		Family:  cases.FamilyToolUse,
		Prompts: []string{"What's the weather in Tokyo?"},
		ToolUse: &cases.ToolUseSpec{
			ExpectedTool: "get_weather",
			ExpectedArguments: []cases.ArgumentExpectation{
				{Name: "location", Value: "Tokyo", Rule: rule},
			},
		},
	}
}

func classifyCall(t *testing.T, c cases.Case, call *providers.ToolInvocation) cases.CaseResult {
	t.Helper()
	comp := completion("```json\n{\"tool\": \"...\"}\n```")
	comp.ToolCall = call
	result, err := New(Config{}).Classify(&c, []providers.CompletionResult{comp})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return result
}

// TestToolUseCaseSensitiveExact pins exact-rule string comparison: the
// right tool called with "tokyo" instead of "Tokyo" scores zero accuracy.
func TestToolUseCaseSensitiveExact(t *testing.T) {
	t.Parallel()

	r := classifyCall(t, weatherCase(cases.RuleExact), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "tokyo"},
	})

	wantBool(t, r, cases.MetricToolSelectedCorrect, true)
	wantNumber(t, r, cases.MetricParameterAccuracy, 0)
	wantBool(t, r, cases.MetricBothCorrect, false)
}

func TestToolUseFullyCorrect(t *testing.T) {
	t.Parallel()

	r := classifyCall(t, weatherCase(cases.RuleExact), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Tokyo"},
	})

	wantBool(t, r, cases.MetricToolSelectedCorrect, true)
	wantNumber(t, r, cases.MetricParameterAccuracy, 1)
	wantBool(t, r, cases.MetricBothCorrect, true)
}

func TestToolUseWrongTool(t *testing.T) {
	t.Parallel()

	r := classifyCall(t, weatherCase(cases.RuleExact), &providers.ToolInvocation{
		Name:      "search",
		Arguments: map[string]any{"location": "Tokyo"},
	})

	wantBool(t, r, cases.MetricToolSelectedCorrect, false)
	wantNumber(t, r, cases.MetricParameterAccuracy, 0)
	wantBool(t, r, cases.MetricBothCorrect, false)
}

// TestToolUseMissingInvocation covers the unparseable-response path: no
// invocation means all metrics score against the model.
func TestToolUseMissingInvocation(t *testing.T) {
	t.Parallel()

	r := classifyCall(t, weatherCase(cases.RuleExact), nil)

	wantBool(t, r, cases.MetricToolSelectedCorrect, false)
	wantNumber(t, r, cases.MetricParameterAccuracy, 0)
	wantBool(t, r, cases.MetricBothCorrect, false)
}

func TestToolUseTypeOnlyRule(t *testing.T) {
	t.Parallel()

	r := classifyCall(t, weatherCase(cases.RuleTypeOnly), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Osaka"},
	})
	wantNumber(t, r, cases.MetricParameterAccuracy, 1)
	wantBool(t, r, cases.MetricBothCorrect, true)

	r = classifyCall(t, weatherCase(cases.RuleTypeOnly), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": 35.68},
	})
	wantNumber(t, r, cases.MetricParameterAccuracy, 0)
}

func TestToolUsePresentOnlyRule(t *testing.T) {
	t.Parallel()

	r := classifyCall(t, weatherCase(cases.RulePresentOnly), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "anything at all"},
	})
	wantNumber(t, r, cases.MetricParameterAccuracy, 1)

	r = classifyCall(t, weatherCase(cases.RulePresentOnly), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": nil},
	})
	wantNumber(t, r, cases.MetricParameterAccuracy, 0)

	r = classifyCall(t, weatherCase(cases.RulePresentOnly), &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{},
	})
	wantNumber(t, r, cases.MetricParameterAccuracy, 0)
}

func TestToolUsePartialCredit(t *testing.T) {
	t.Parallel()

	c := cases.Case{
		ID:      "weather-unit",
		Family:  cases.FamilyToolUse,
		Prompts: []string{"Weather in Paris in fahrenheit?"},
		ToolUse: &cases.ToolUseSpec{
			ExpectedTool: "get_weather",
			ExpectedArguments: []cases.ArgumentExpectation{
				{Name: "location", Value: "Paris", Rule: cases.RuleExact},
				{Name: "unit", Value: "fahrenheit", Rule: cases.RuleExact},
			},
		},
	}
	r := classifyCall(t, c, &providers.ToolInvocation{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Paris", "unit": "celsius"},
	})

	wantBool(t, r, cases.MetricToolSelectedCorrect, true)
	wantNumber(t, r, cases.MetricParameterAccuracy, 0.5)
	wantBool(t, r, cases.MetricBothCorrect, false)
}

// TestValueEqualNumericCoercion verifies YAML-authored integers compare
// equal to JSON-decoded floats.
func TestValueEqualNumericCoercion(t *testing.T) {
	t.Parallel()

	c := cases.Case{
		ID:      "search-count",
		Family:  cases.FamilyToolUse,
		Prompts: []string{"Search with 5 results"},
		ToolUse: &cases.ToolUseSpec{
			ExpectedTool: "search",
			ExpectedArguments: []cases.ArgumentExpectation{
				{Name: "num_results", Value: 5, Rule: cases.RuleExact},
			},
		},
	}
	r := classifyCall(t, c, &providers.ToolInvocation{
		Name:      "search",
		Arguments: map[string]any{"num_results": float64(5)},
	})
	wantNumber(t, r, cases.MetricParameterAccuracy, 1)
}
