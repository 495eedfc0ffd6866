// internal/engine/structured.go
package engine

import (
	"fmt"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/providers"
	"github.com/mwiater/modeleval/internal/schema"
)

// classifyStructured validates the primary response against the case's
// schema and, when the primary was invalid and a retry completion was
// collected, settles retry_success. With no retry the metric stays absent.
func (e *Engine) classifyStructured(c *cases.Case, primary providers.CompletionResult, retry *providers.CompletionResult) (cases.CaseResult, error) {
	spec := c.Structured
	compiled, err := spec.Schema.Compile()
	if err != nil {
		return cases.CaseResult{}, fmt.Errorf("case %q: %w", c.ID, err)
	}

	result := cases.NewCaseResult(c, primary.Model)
	details := &cases.Details{Responses: []string{primary.Content}}

	value, parseErr := DecodeJSON(primary.Content)
	validJSON := parseErr == nil
	result.SetBool(cases.MetricValidJSON, validJSON)

	// A parse failure short-circuits: the validator never sees the value.
	var violations []schema.Violation
	schemaValid := false
	if validJSON {
		violations = compiled.Validate(value)
		schemaValid = len(violations) == 0
	} else {
		details.ParseError = parseErr.Error()
	}
	result.SetBool(cases.MetricSchemaValid, schemaValid)
	result.SetNumber(cases.MetricViolationCount, float64(len(violations)))
	details.Violations = violations

	if !schemaValid && retry != nil {
		details.Responses = append(details.Responses, retry.Content)
		retryOK := false
		if retryValue, retryErr := DecodeJSON(retry.Content); retryErr == nil {
			retryViolations := compiled.Validate(retryValue)
			details.RetryViolations = retryViolations
			retryOK = len(retryViolations) == 0
		}
		result.SetBool(cases.MetricRetrySuccess, retryOK)
	}

	result.Details = details
	return result, nil
}
