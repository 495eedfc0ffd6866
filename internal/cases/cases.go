// internal/cases/cases.go
// Package cases defines the evaluation case model shared by the engine,
// runner, and reporting layers: families, case payloads, and the typed
// results classifiers produce.
package cases

import (
	"fmt"

	"github.com/mwiater/modeleval/internal/schema"
)

// Family tags a case with the failure mode it probes.
type Family string

const (
	FamilyHallucination    Family = "hallucination"
	FamilyBrittleness      Family = "brittleness"
	FamilyStructuredOutput Family = "structured-output"
	FamilyToolUse          Family = "tool-use"
)

// Families lists every supported family in a stable order.
func Families() []Family {
	return []Family{FamilyHallucination, FamilyBrittleness, FamilyStructuredOutput, FamilyToolUse}
}

// ParseFamily resolves a user-supplied family name.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown eval family %q", s)
	}
	return f, nil
}

// Valid reports whether the family tag is one of the supported four.
func (f Family) Valid() bool {
	switch f {
	case FamilyHallucination, FamilyBrittleness, FamilyStructuredOutput, FamilyToolUse:
		return true
	}
	return false
}

// Case is a single test unit: an id, a family tag, the prompt text(s) sent
// to the model, and exactly one family-specific payload. Brittleness cases
// carry their phrasing variations in Prompts; every other family carries a
// single prompt.
type Case struct {
	ID      string   `json:"id" yaml:"id"`
	Family  Family   `json:"family" yaml:"family"`
	Prompts []string `json:"prompts" yaml:"prompts"`

	Hallucination *HallucinationSpec `json:"hallucination,omitempty" yaml:"hallucination,omitempty"`
	Brittleness   *BrittlenessSpec   `json:"brittleness,omitempty" yaml:"brittleness,omitempty"`
	Structured    *StructuredSpec    `json:"structured,omitempty" yaml:"structured,omitempty"`
	ToolUse       *ToolUseSpec       `json:"toolUse,omitempty" yaml:"tool_use,omitempty"`
}

// HallucinationSpec grounds a response against source context.
type HallucinationSpec struct {
	Context               string   `json:"context" yaml:"context"`
	GroundTruth           string   `json:"groundTruth" yaml:"ground_truth"`
	AllowedVariants       []string `json:"allowedVariants,omitempty" yaml:"allowed_variants,omitempty"`
	HallucinationPatterns []string `json:"hallucinationPatterns,omitempty" yaml:"hallucination_patterns,omitempty"`
	AnswerInContext       bool     `json:"answerInContext" yaml:"answer_in_context"`
}

// Tolerance selects how brittleness responses are scored against the
// expected answer.
type Tolerance string

const (
	ToleranceExact Tolerance = "exact"
	ToleranceFuzzy Tolerance = "fuzzy"
)

// BrittlenessSpec scores answer stability across the case's prompt
// variations.
type BrittlenessSpec struct {
	ExpectedAnswer   string    `json:"expectedAnswer,omitempty" yaml:"expected_answer,omitempty"`
	Tolerance        Tolerance `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	ExpectedKeywords []string  `json:"expectedKeywords,omitempty" yaml:"expected_keywords,omitempty"`
}

// Mode returns the effective tolerance; an unset tolerance scores exact.
func (b BrittlenessSpec) Mode() Tolerance {
	if b.Tolerance == "" {
		return ToleranceExact
	}
	return b.Tolerance
}

// StructuredSpec validates a JSON response against a declared schema.
// RetryNudge, when set, overrides the corrective re-prompt sent after an
// invalid first attempt.
type StructuredSpec struct {
	SchemaName string        `json:"schemaName,omitempty" yaml:"schema_name,omitempty"`
	Schema     schema.Schema `json:"schema" yaml:"schema"`
	RetryNudge string        `json:"retryNudge,omitempty" yaml:"retry_nudge,omitempty"`
}

// MatchRule selects how one expected tool argument is compared.
type MatchRule string

const (
	RuleExact       MatchRule = "exact"
	RuleTypeOnly    MatchRule = "type-only"
	RulePresentOnly MatchRule = "present-only"
)

// ArgumentExpectation describes one argument the model is expected to
// supply. An unset rule compares exact.
type ArgumentExpectation struct {
	Name  string    `json:"name" yaml:"name"`
	Value any       `json:"value,omitempty" yaml:"value,omitempty"`
	Rule  MatchRule `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// MatchMode returns the effective comparison rule.
func (a ArgumentExpectation) MatchMode() MatchRule {
	if a.Rule == "" {
		return RuleExact
	}
	return a.Rule
}

// ToolDescriptor is one catalog entry offered to the model. Parameters is
// a free-form JSON-Schema-shaped document used only for prompt rendering.
type ToolDescriptor struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ToolUseSpec checks tool selection and argument correctness.
type ToolUseSpec struct {
	ExpectedTool      string                `json:"expectedTool" yaml:"expected_tool"`
	ExpectedArguments []ArgumentExpectation `json:"expectedArguments,omitempty" yaml:"expected_arguments,omitempty"`
	Tools             []ToolDescriptor      `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// Validate enforces the construction-time invariants: a non-empty id, a
// known family, prompts appropriate to the family, and exactly one payload
// matching the family tag. Malformed cases never reach classification.
func (c *Case) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("case has no id")
	}
	if !c.Family.Valid() {
		return fmt.Errorf("case %q: unknown family %q", c.ID, c.Family)
	}
	if len(c.Prompts) == 0 {
		return fmt.Errorf("case %q: no prompts", c.ID)
	}
	for i, p := range c.Prompts {
		if p == "" {
			return fmt.Errorf("case %q: prompt %d is empty", c.ID, i)
		}
	}

	payloads := 0
	for _, present := range []bool{
		c.Hallucination != nil,
		c.Brittleness != nil,
		c.Structured != nil,
		c.ToolUse != nil,
	} {
		if present {
			payloads++
		}
	}
	if payloads != 1 {
		return fmt.Errorf("case %q: expected exactly one family payload, found %d", c.ID, payloads)
	}

	switch c.Family {
	case FamilyHallucination:
		if c.Hallucination == nil {
			return fmt.Errorf("case %q: family %s without matching payload", c.ID, c.Family)
		}
		if len(c.Prompts) != 1 {
			return fmt.Errorf("case %q: hallucination cases carry exactly one prompt", c.ID)
		}
		if c.Hallucination.Context == "" {
			return fmt.Errorf("case %q: hallucination case without context", c.ID)
		}
	case FamilyBrittleness:
		if c.Brittleness == nil {
			return fmt.Errorf("case %q: family %s without matching payload", c.ID, c.Family)
		}
		if len(c.Prompts) < 2 {
			return fmt.Errorf("case %q: brittleness cases need at least 2 prompt variations, got %d", c.ID, len(c.Prompts))
		}
		switch c.Brittleness.Mode() {
		case ToleranceExact:
			if c.Brittleness.ExpectedAnswer == "" {
				return fmt.Errorf("case %q: exact tolerance without an expected answer", c.ID)
			}
		case ToleranceFuzzy:
			if len(c.Brittleness.ExpectedKeywords) == 0 {
				return fmt.Errorf("case %q: fuzzy tolerance without expected keywords", c.ID)
			}
		default:
			return fmt.Errorf("case %q: unknown tolerance %q", c.ID, c.Brittleness.Tolerance)
		}
	case FamilyStructuredOutput:
		if c.Structured == nil {
			return fmt.Errorf("case %q: family %s without matching payload", c.ID, c.Family)
		}
		if len(c.Prompts) != 1 {
			return fmt.Errorf("case %q: structured-output cases carry exactly one prompt", c.ID)
		}
		if _, err := c.Structured.Schema.Compile(); err != nil {
			return fmt.Errorf("case %q: %w", c.ID, err)
		}
	case FamilyToolUse:
		if c.ToolUse == nil {
			return fmt.Errorf("case %q: family %s without matching payload", c.ID, c.Family)
		}
		if len(c.Prompts) != 1 {
			return fmt.Errorf("case %q: tool-use cases carry exactly one prompt", c.ID)
		}
		if c.ToolUse.ExpectedTool == "" {
			return fmt.Errorf("case %q: tool-use case without an expected tool", c.ID)
		}
		for _, arg := range c.ToolUse.ExpectedArguments {
			if arg.Name == "" {
				return fmt.Errorf("case %q: expected argument without a name", c.ID)
			}
			switch arg.MatchMode() {
			case RuleExact, RuleTypeOnly:
				if arg.Value == nil {
					return fmt.Errorf("case %q: argument %q needs an expected value for rule %q", c.ID, arg.Name, arg.MatchMode())
				}
			case RulePresentOnly:
			default:
				return fmt.Errorf("case %q: argument %q has unknown rule %q", c.ID, arg.Name, arg.Rule)
			}
		}
	}
	return nil
}
