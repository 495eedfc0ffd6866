// internal/providers/provider.go

// Package providers defines the interface for querying chat models and the
// completion payload the evaluation engine consumes. Implementations wrap
// one configured endpoint and model; the engine itself never talks to a
// provider.
package providers

import (
	"context"
	"time"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single completion request.
type Options struct {
	// Temperature defaults to 0 so repeated runs stay comparable.
	Temperature float64
	// MaxTokens caps the response length; zero means provider default.
	MaxTokens int
	// JSONMode requests a JSON-only response where the provider supports
	// it; providers without the capability ignore it.
	JSONMode bool
}

// ToolInvocation is a parsed tool call extracted from a model response.
type ToolInvocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CompletionResult is one model response plus usage metadata. Token counts
// of zero mean the provider did not report usage. ToolCall is attached by
// the caller after parsing tool-use responses; classification consumes it
// as-is.
type CompletionResult struct {
	Content      string          `json:"content"`
	Model        string          `json:"model"`
	InputTokens  int             `json:"inputTokens,omitempty"`
	OutputTokens int             `json:"outputTokens,omitempty"`
	CachedTokens int             `json:"cachedTokens,omitempty"`
	Duration     time.Duration   `json:"durationNs,omitempty"`
	ToolCall     *ToolInvocation `json:"toolCall,omitempty"`
}

// TotalTokens sums reported input and output usage.
func (r CompletionResult) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Provider is the interface every model backend implements.
type Provider interface {
	// Name identifies the provider instance from configuration.
	Name() string
	// Model returns the model identifier requests are issued against.
	Model() string
	// Complete sends one chat exchange and blocks for the full response.
	Complete(ctx context.Context, messages []Message, opts Options) (CompletionResult, error)
	// Close cleans up any resources used by the provider.
	Close() error
}
