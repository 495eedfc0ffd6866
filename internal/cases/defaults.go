// internal/cases/defaults.go
package cases

import "github.com/mwiater/modeleval/internal/schema"

var personSchema = schema.Schema{
	Fields: []schema.Field{
		{Name: "name", Type: schema.KindString, Required: true},
		{Name: "age", Type: schema.KindInteger, Required: true},
		{Name: "email", Type: schema.KindString},
	},
}

var nestedSchema = schema.Schema{
	Fields: []schema.Field{
		{Name: "title", Type: schema.KindString, Required: true},
		{Name: "tags", Type: schema.KindArray, Elem: &schema.Field{Type: schema.KindString}},
		{Name: "metadata", Type: schema.KindObject, Fields: []schema.Field{
			{Name: "created", Type: schema.KindString, Required: true},
			{Name: "author", Type: schema.KindString},
		}},
	},
}

var unionSchema = schema.Schema{
	Fields: []schema.Field{
		{Name: "id", Type: schema.KindString, Required: true},
		{Name: "value", Type: schema.KindInteger, Required: true},
		{Name: "active", Type: schema.KindBoolean},
	},
}

var weatherTool = ToolDescriptor{
	Name:        "get_weather",
	Description: "Get the current weather for a location",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{"type": "string", "description": "City name"},
			"unit":     map[string]any{"type": "string", "enum": []any{"celsius", "fahrenheit"}, "default": "celsius"},
		},
		"required": []any{"location"},
	},
}

var searchTool = ToolDescriptor{
	Name:        "search",
	Description: "Search the web for information",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search query"},
			"num_results": map[string]any{"type": "integer", "default": 5},
		},
		"required": []any{"query"},
	},
}

var calculatorTool = ToolDescriptor{
	Name:        "calculate",
	Description: "Perform a calculation",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{"type": "string", "description": "Math expression"},
		},
		"required": []any{"expression"},
	},
}

// DefaultSuite returns the built-in case collection used when the
// configuration names no suite files. It covers all four families.
func DefaultSuite() Suite {
	return Suite{
		Name: "default",
		Cases: []Case{
			{
				ID:      "simple-fact",
				Family:  FamilyHallucination,
				Prompts: []string{"What year was the company founded?"},
				Hallucination: &HallucinationSpec{
					Context:               "Acme Corp was founded in 2019 by Jane Doe. The company specializes in cloud computing.",
					GroundTruth:           "2019",
					AllowedVariants:       []string{"in 2019", "2019 by jane doe", "the company was founded in 2019"},
					HallucinationPatterns: []string{"2020", "2021", "john smith", "1999"},
					AnswerInContext:       true,
				},
			},
			{
				ID:      "multiple-facts",
				Family:  FamilyHallucination,
				Prompts: []string{"Who founded the company and when?"},
				Hallucination: &HallucinationSpec{
					Context:               "Acme Corp was founded in 2019 by Jane Doe.",
					GroundTruth:           "jane doe in 2019",
					AllowedVariants:       []string{"jane doe", "2019 by jane doe"},
					HallucinationPatterns: []string{"john smith", "2020", "bob johnson"},
					AnswerInContext:       true,
				},
			},
			{
				ID:      "not-in-context",
				Family:  FamilyHallucination,
				Prompts: []string{"What is the company's revenue?"},
				Hallucination: &HallucinationSpec{
					Context:               "Acme Corp was founded in 2019 by Jane Doe. The company specializes in cloud computing.",
					GroundTruth:           "",
					HallucinationPatterns: []string{"$", "million", "billion", "revenue is"},
					AnswerInContext:       false,
				},
			},
			{
				ID:      "partial-info",
				Family:  FamilyHallucination,
				Prompts: []string{"Where is the company headquartered?"},
				Hallucination: &HallucinationSpec{
					Context:               "Acme Corp was founded in 2019 by Jane Doe. The company has offices in San Francisco and Austin.",
					GroundTruth:           "",
					AllowedVariants:       []string{"not mentioned", "not provided", "i don't know"},
					HallucinationPatterns: []string{"new york", "london", "headquartered in", "based in"},
					AnswerInContext:       false,
				},
			},
			{
				ID:      "distractor-fact",
				Family:  FamilyHallucination,
				Prompts: []string{"Who is the CEO of Acme Corp?"},
				Hallucination: &HallucinationSpec{
					Context:               "Acme Corp was founded in 2019 by Jane Doe. John Smith is the CEO of a competitor, Beta Corp.",
					GroundTruth:           "",
					AllowedVariants:       []string{"not mentioned", "i don't know", "not provided"},
					HallucinationPatterns: []string{"john smith", "jane doe is the ceo"},
					AnswerInContext:       false,
				},
			},
			{
				ID:     "capital-of-france",
				Family: FamilyBrittleness,
				Prompts: []string{
					"What is the capital of France?",
					"France's capital is...?",
					"Name the capital city of France.",
					"Tell me: what's the capital of France?",
					"The capital of France is what?",
				},
				Brittleness: &BrittlenessSpec{
					Tolerance:        ToleranceFuzzy,
					ExpectedKeywords: []string{"paris"},
				},
			},
			{
				ID:     "simple-math",
				Family: FamilyBrittleness,
				Prompts: []string{
					"What is 7 + 5?",
					"7 plus 5 equals?",
					"Calculate: 7 + 5",
					"Seven plus five is...?",
				},
				Brittleness: &BrittlenessSpec{
					ExpectedAnswer: "12",
					Tolerance:      ToleranceExact,
				},
			},
			{
				ID:     "word-meaning",
				Family: FamilyBrittleness,
				Prompts: []string{
					"What does 'ephemeral' mean?",
					"Define: ephemeral",
					"The definition of ephemeral is?",
					"Explain the word 'ephemeral'.",
				},
				Brittleness: &BrittlenessSpec{
					Tolerance:        ToleranceFuzzy,
					ExpectedKeywords: []string{"transient", "fleeting", "short-lived", "temporary"},
				},
			},
			{
				ID:     "temperature-phrasing",
				Family: FamilyBrittleness,
				Prompts: []string{
					"Is 100 degrees Celsius hot or cold?",
					"100°C: hot or cold?",
					"Would you describe 100 degrees Celsius as hot or cold?",
				},
				Brittleness: &BrittlenessSpec{
					Tolerance:        ToleranceFuzzy,
					ExpectedKeywords: []string{"hot", "boiling"},
				},
			},
			{
				ID:      "person-simple",
				Family:  FamilyStructuredOutput,
				Prompts: []string{"Extract person info from: John is 30 years old and his email is john@example.com"},
				Structured: &StructuredSpec{
					SchemaName: "Person",
					Schema:     personSchema,
				},
			},
			{
				ID:      "person-missing-field",
				Family:  FamilyStructuredOutput,
				Prompts: []string{"Extract person info from: Jane works at Acme Corp"},
				Structured: &StructuredSpec{
					SchemaName: "Person",
					Schema:     personSchema,
				},
			},
			{
				ID:      "nested-simple",
				Family:  FamilyStructuredOutput,
				Prompts: []string{`Create a blog post object with title "Hello World" and tags ["tech", "go"]`},
				Structured: &StructuredSpec{
					SchemaName: "Nested",
					Schema:     nestedSchema,
				},
			},
			{
				ID:      "nested-complex",
				Family:  FamilyStructuredOutput,
				Prompts: []string{`Create an object: title="Deep Dive", tags=["ai", "ml"], metadata={"created":"2025-01-01"}`},
				Structured: &StructuredSpec{
					SchemaName: "Nested",
					Schema:     nestedSchema,
				},
			},
			{
				ID:      "union-numeric",
				Family:  FamilyStructuredOutput,
				Prompts: []string{`Return object with id="123", value=42, active=true`},
				Structured: &StructuredSpec{
					SchemaName: "Union",
					Schema:     unionSchema,
				},
			},
			{
				ID:      "union-string-value",
				Family:  FamilyStructuredOutput,
				Prompts: []string{`Return object with id="abc", value="not-a-number", active=false`},
				Structured: &StructuredSpec{
					SchemaName: "Union",
					Schema:     unionSchema,
				},
			},
			{
				ID:      "weather-simple",
				Family:  FamilyToolUse,
				Prompts: []string{"What's the weather in Tokyo?"},
				ToolUse: &ToolUseSpec{
					ExpectedTool: "get_weather",
					ExpectedArguments: []ArgumentExpectation{
						{Name: "location", Value: "Tokyo", Rule: RuleExact},
					},
					Tools: []ToolDescriptor{weatherTool, searchTool},
				},
			},
			{
				ID:      "weather-with-unit",
				Family:  FamilyToolUse,
				Prompts: []string{"Check the weather in Paris in fahrenheit"},
				ToolUse: &ToolUseSpec{
					ExpectedTool: "get_weather",
					ExpectedArguments: []ArgumentExpectation{
						{Name: "location", Value: "Paris", Rule: RuleExact},
						{Name: "unit", Value: "fahrenheit", Rule: RuleExact},
					},
					Tools: []ToolDescriptor{weatherTool, searchTool},
				},
			},
			{
				ID:      "search-not-weather",
				Family:  FamilyToolUse,
				Prompts: []string{"Search for information about quantum computing"},
				ToolUse: &ToolUseSpec{
					ExpectedTool: "search",
					ExpectedArguments: []ArgumentExpectation{
						{Name: "query", Value: "quantum computing", Rule: RuleTypeOnly},
					},
					Tools: []ToolDescriptor{weatherTool, searchTool},
				},
			},
			{
				ID:      "calculator",
				Family:  FamilyToolUse,
				Prompts: []string{"What is 257 times 843?"},
				ToolUse: &ToolUseSpec{
					ExpectedTool: "calculate",
					ExpectedArguments: []ArgumentExpectation{
						{Name: "expression", Rule: RulePresentOnly},
					},
					Tools: []ToolDescriptor{calculatorTool},
				},
			},
			{
				ID:      "ambiguous-query",
				Family:  FamilyToolUse,
				Prompts: []string{"Tell me about Paris"},
				ToolUse: &ToolUseSpec{
					ExpectedTool: "search",
					ExpectedArguments: []ArgumentExpectation{
						{Name: "query", Value: "Paris", Rule: RuleTypeOnly},
					},
					Tools: []ToolDescriptor{weatherTool, searchTool},
				},
			},
		},
	}
}
