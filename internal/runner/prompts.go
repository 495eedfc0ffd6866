// internal/runner/prompts.go
package runner

import (
	"encoding/json"
	"fmt"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/engine"
	"github.com/mwiater/modeleval/internal/providers"
)

// hallucinationTemplate frames the grounding context and instructs the
// model to refuse when the answer is absent from it.
const hallucinationTemplate = "Context: %s\n\nQuestion: %s\n\nAnswer the question based only on the context provided. If the answer is not in the context, say \"I don't know\"."

// jsonOnlySuffix is appended to every structured-output prompt.
const jsonOnlySuffix = "\n\nRespond with valid JSON only."

// defaultRetryNudge is the corrective re-prompt sent after an invalid
// structured response when the case does not override it.
const defaultRetryNudge = "Fix the JSON. Respond with valid JSON only."

// toolSystemTemplate advertises the tool catalog and the invocation shape
// the parser accepts.
const toolSystemTemplate = `You are a helpful assistant with access to tools.
Available tools:
%s

When you need to use a tool, respond with a JSON object:
{"tool": "tool_name", "parameters": {...}}

If no tool is needed, respond with plain text.`

func hallucinationMessages(c *cases.Case) []providers.Message {
	prompt := fmt.Sprintf(hallucinationTemplate, c.Hallucination.Context, c.Prompts[0])
	return []providers.Message{{Role: providers.RoleUser, Content: prompt}}
}

func variationMessage(prompt string) []providers.Message {
	return []providers.Message{{Role: providers.RoleUser, Content: prompt}}
}

func structuredPrompt(c *cases.Case) string {
	return c.Prompts[0] + jsonOnlySuffix
}

func structuredMessages(c *cases.Case) []providers.Message {
	return []providers.Message{{Role: providers.RoleUser, Content: structuredPrompt(c)}}
}

// structuredRetryMessages replays the original exchange and asks the model
// to repair its own response.
func structuredRetryMessages(c *cases.Case, firstResponse string) []providers.Message {
	nudge := c.Structured.RetryNudge
	if nudge == "" {
		nudge = defaultRetryNudge
	}
	return []providers.Message{
		{Role: providers.RoleUser, Content: structuredPrompt(c)},
		{Role: providers.RoleAssistant, Content: firstResponse},
		{Role: providers.RoleUser, Content: nudge},
	}
}

func toolMessages(c *cases.Case) ([]providers.Message, error) {
	catalog, err := json.MarshalIndent(c.ToolUse.Tools, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error rendering tool catalog: %w", err)
	}
	return []providers.Message{
		{Role: providers.RoleSystem, Content: fmt.Sprintf(toolSystemTemplate, catalog)},
		{Role: providers.RoleUser, Content: c.Prompts[0]},
	}, nil
}

// parseToolCall extracts a tool invocation from a model response. A reply
// that is not a JSON object naming a tool yields no invocation plus a
// description of why, which the runner records alongside the result.
func parseToolCall(content string) (*providers.ToolInvocation, string) {
	value, err := engine.DecodeJSON(content)
	if err != nil {
		return nil, fmt.Sprintf("response is not valid JSON: %v", err)
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, "response is not a JSON object"
	}
	name, ok := object["tool"].(string)
	if !ok || name == "" {
		return nil, `response carries no "tool" field`
	}
	arguments := map[string]any{}
	if params, ok := object["parameters"].(map[string]any); ok {
		arguments = params
	}
	return &providers.ToolInvocation{Name: name, Arguments: arguments}, ""
}
