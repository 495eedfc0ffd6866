// internal/engine/engine.go
// Package engine classifies model responses against evaluation cases. All
// classification is pure and synchronous: the same case and completions
// always produce the same result, with no I/O and no shared state.
package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/providers"
)

// DefaultRefusalMarkers flag a response as a refusal when any of them
// appears in its normalized form.
var DefaultRefusalMarkers = []string{
	"i don't know",
	"not mentioned",
	"cannot determine",
	"not provided",
	"cannot answer",
}

// Config tunes an Engine. The zero value uses the default refusal markers
// and no semantic scorer.
type Config struct {
	// RefusalMarkers overrides the default refusal phrase set.
	RefusalMarkers []string
	// Similarity, when set, scores response/ground-truth similarity for
	// hallucination cases. A scorer that performs I/O forfeits the
	// engine's purity; the default is nil.
	Similarity func(a, b string) (float64, error)
}

// Engine dispatches cases to their family classifiers.
type Engine struct {
	refusalMarkers []string
	similarity     func(a, b string) (float64, error)
}

// New builds an Engine from cfg, filling in defaults.
func New(cfg Config) *Engine {
	markers := cfg.RefusalMarkers
	if len(markers) == 0 {
		markers = DefaultRefusalMarkers
	}
	normalized := make([]string, 0, len(markers))
	for _, m := range markers {
		if n := Normalize(m); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &Engine{refusalMarkers: normalized, similarity: cfg.Similarity}
}

// Classify routes a case and its collected completions to the family
// classifier. Brittleness expects one completion per prompt variation;
// structured-output accepts an optional second completion holding the
// retry; the other families take exactly one.
func (e *Engine) Classify(c *cases.Case, completions []providers.CompletionResult) (cases.CaseResult, error) {
	switch c.Family {
	case cases.FamilyHallucination:
		if len(completions) != 1 {
			return cases.CaseResult{}, fmt.Errorf("case %q: hallucination expects 1 completion, got %d", c.ID, len(completions))
		}
		return e.classifyHallucination(c, completions[0]), nil
	case cases.FamilyBrittleness:
		if len(completions) != len(c.Prompts) {
			return cases.CaseResult{}, fmt.Errorf("case %q: brittleness expects %d completions, got %d", c.ID, len(c.Prompts), len(completions))
		}
		return e.classifyBrittleness(c, completions), nil
	case cases.FamilyStructuredOutput:
		switch len(completions) {
		case 1:
			return e.classifyStructured(c, completions[0], nil)
		case 2:
			return e.classifyStructured(c, completions[0], &completions[1])
		default:
			return cases.CaseResult{}, fmt.Errorf("case %q: structured-output expects 1 or 2 completions, got %d", c.ID, len(completions))
		}
	case cases.FamilyToolUse:
		if len(completions) != 1 {
			return cases.CaseResult{}, fmt.Errorf("case %q: tool-use expects 1 completion, got %d", c.ID, len(completions))
		}
		return e.classifyToolUse(c, completions[0]), nil
	default:
		return cases.CaseResult{}, fmt.Errorf("case %q: unknown family %q", c.ID, c.Family)
	}
}

// IsRefusal reports whether a response matches the configured refusal
// markers after normalization.
func (e *Engine) IsRefusal(response string) bool {
	norm := Normalize(response)
	for _, marker := range e.refusalMarkers {
		if strings.Contains(norm, marker) {
			return true
		}
	}
	return false
}

// StripFences removes a surrounding markdown code fence, which models
// routinely wrap JSON responses in.
func StripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
	} else {
		return trimmed
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// DecodeJSON parses a model response as JSON after fence stripping.
func DecodeJSON(content string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(StripFences(content)), &value); err != nil {
		return nil, err
	}
	return value, nil
}
