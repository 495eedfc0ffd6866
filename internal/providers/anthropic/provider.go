// internal/providers/anthropic/provider.go
// Package anthropic provides a Provider backed by the Anthropic messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	anthropicSDK "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/logging"
	"github.com/mwiater/modeleval/internal/providers"
)

// defaultMaxTokens is applied when the request does not cap completion
// length; the messages API requires an explicit value.
const defaultMaxTokens = 1024

// Provider implements the providers.Provider interface using the Anthropic API.
type Provider struct {
	name   string
	model  string
	client anthropicSDK.Client
	debug  bool
}

// New constructs a Provider from configuration. The API key is read from the
// environment variable named by the provider entry.
func New(cfg *appconfig.Config, pc appconfig.ProviderConfig) (*Provider, error) {
	env := pc.KeyEnvName()
	apiKey := os.Getenv(env)
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: environment variable %s is not set", env)
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
	}
	if base := pc.Endpoint(); base != "" {
		options = append(options, option.WithBaseURL(base))
	}

	return &Provider{
		name:   pc.Name,
		model:  pc.ModelName(),
		client: anthropicSDK.NewClient(options...),
		debug:  cfg.Debug,
	}, nil
}

// Name identifies the provider instance from configuration.
func (p *Provider) Name() string { return p.name }

// Model returns the model identifier requests are issued against.
func (p *Provider) Model() string { return p.model }

// Complete sends one messages request and blocks for the full response.
// System turns are folded into the request's system prompt; the messages API
// has no JSON mode, so that option is ignored.
func (p *Provider) Complete(ctx context.Context, messages []providers.Message, opts providers.Options) (providers.CompletionResult, error) {
	system, turns := splitSystemPrompt(messages)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropicSDK.MessageNewParams{
		Model:       anthropicSDK.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Messages:    turns,
		Temperature: anthropicSDK.Float(opts.Temperature),
	}
	if system != "" {
		params.System = []anthropicSDK.TextBlockParam{{Text: system}}
	}

	if p.debug {
		logging.LogRequest("EVAL->LLM", p.name, p.model, "", params)
	}

	start := time.Now()
	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return providers.CompletionResult{}, fmt.Errorf("anthropic: messages: %w", err)
	}
	if p.debug {
		logging.LogRequest("LLM->EVAL", p.name, p.model, "", message)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	result := providers.CompletionResult{
		Content:      text.String(),
		Model:        string(message.Model),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		CachedTokens: int(message.Usage.CacheReadInputTokens),
		Duration:     time.Since(start),
	}
	if result.Model == "" {
		result.Model = p.model
	}
	return result, nil
}

// splitSystemPrompt separates system turns from the conversation; the
// messages API carries the system prompt outside the message list.
func splitSystemPrompt(messages []providers.Message) (string, []anthropicSDK.MessageParam) {
	var system strings.Builder
	turns := make([]anthropicSDK.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case providers.RoleSystem:
			if system.Len() > 0 {
				system.WriteString("\n")
			}
			system.WriteString(m.Content)
		case providers.RoleAssistant:
			turns = append(turns, anthropicSDK.NewAssistantMessage(anthropicSDK.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropicSDK.NewUserMessage(anthropicSDK.NewTextBlock(m.Content)))
		}
	}
	return system.String(), turns
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
