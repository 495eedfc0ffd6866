// internal/engine/tooluse.go
package engine

import (
	"reflect"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/providers"
)

// classifyToolUse scores tool selection and argument correctness. The
// completion's ToolCall has already been parsed by the caller; a missing
// invocation classifies as wrong tool with zero argument accuracy.
func (e *Engine) classifyToolUse(c *cases.Case, comp providers.CompletionResult) cases.CaseResult {
	spec := c.ToolUse
	result := cases.NewCaseResult(c, comp.Model)
	details := &cases.Details{Responses: []string{comp.Content}}
	result.Details = details

	call := comp.ToolCall
	if call == nil {
		result.SetBool(cases.MetricToolSelectedCorrect, false)
		result.SetNumber(cases.MetricParameterAccuracy, 0)
		result.SetBool(cases.MetricBothCorrect, false)
		return result
	}
	details.SelectedTool = call.Name
	details.SuppliedArgs = call.Arguments

	selected := call.Name == spec.ExpectedTool
	result.SetBool(cases.MetricToolSelectedCorrect, selected)

	// Argument accuracy is conditional on selecting the right tool; a
	// perfectly-argued call to the wrong tool still scores zero.
	accuracy := 0.0
	if selected {
		accuracy = argumentAccuracy(spec.ExpectedArguments, call.Arguments)
	}
	result.SetNumber(cases.MetricParameterAccuracy, accuracy)
	result.SetBool(cases.MetricBothCorrect, selected && accuracy == 1.0)
	return result
}

// argumentAccuracy returns the fraction of expected arguments satisfied by
// the supplied arguments under each argument's comparison rule.
func argumentAccuracy(expected []cases.ArgumentExpectation, supplied map[string]any) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	satisfied := 0
	for _, exp := range expected {
		actual, present := supplied[exp.Name]
		if !present {
			continue
		}
		switch exp.MatchMode() {
		case cases.RuleExact:
			if valueEqual(exp.Value, actual) {
				satisfied++
			}
		case cases.RuleTypeOnly:
			if jsonTypeOf(exp.Value) == jsonTypeOf(actual) {
				satisfied++
			}
		case cases.RulePresentOnly:
			if actual != nil {
				satisfied++
			}
		}
	}
	return float64(satisfied) / float64(len(expected))
}

// valueEqual compares two decoded values. String comparison is
// case-sensitive; numbers compare equal across int/float encodings so
// YAML-authored expectations match JSON-decoded arguments.
func valueEqual(a, b any) bool {
	if an, ok := toFloat(a); ok {
		bn, bok := toFloat(b)
		return bok && an == bn
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, exists := bv[k]
			if !exists || !valueEqual(v, bvv) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// jsonTypeOf names the JSON type a decoded value belongs to. Integers and
// floats fold into "number".
func jsonTypeOf(v any) string {
	if _, ok := toFloat(v); ok {
		return "number"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	}
	return "unknown"
}
