// internal/providers/openai/provider.go
// Package openai provides a Provider backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	openaiSDK "github.com/sashabaranov/go-openai"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/logging"
	"github.com/mwiater/modeleval/internal/providers"
)

// Provider implements the providers.Provider interface using the OpenAI API.
// It also serves OpenAI-compatible endpoints when the config supplies a base
// URL (include the /v1 suffix).
type Provider struct {
	name   string
	model  string
	client *openaiSDK.Client
	debug  bool
}

// New constructs a Provider from configuration. The API key is read from the
// environment variable named by the provider entry.
func New(cfg *appconfig.Config, pc appconfig.ProviderConfig) (*Provider, error) {
	env := pc.KeyEnvName()
	apiKey := os.Getenv(env)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: environment variable %s is not set", env)
	}

	clientConfig := openaiSDK.DefaultConfig(apiKey)
	if base := pc.Endpoint(); base != "" {
		clientConfig.BaseURL = base
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout()}

	return &Provider{
		name:   pc.Name,
		model:  pc.ModelName(),
		client: openaiSDK.NewClientWithConfig(clientConfig),
		debug:  cfg.Debug,
	}, nil
}

// Name identifies the provider instance from configuration.
func (p *Provider) Name() string { return p.name }

// Model returns the model identifier requests are issued against.
func (p *Provider) Model() string { return p.model }

// Complete sends one chat completion request and blocks for the full response.
func (p *Provider) Complete(ctx context.Context, messages []providers.Message, opts providers.Options) (providers.CompletionResult, error) {
	req := openaiSDK.ChatCompletionRequest{
		Model:    p.model,
		Messages: make([]openaiSDK.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openaiSDK.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	// The API treats an omitted temperature as 1, and the client omits zero
	// values; zero must be sent as the smallest representable float instead.
	temperature := float32(opts.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}
	req.Temperature = temperature

	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.JSONMode {
		req.ResponseFormat = &openaiSDK.ChatCompletionResponseFormat{
			Type: openaiSDK.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	if p.debug {
		logging.LogRequest("EVAL->LLM", p.name, p.model, "", req)
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return providers.CompletionResult{}, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return providers.CompletionResult{}, fmt.Errorf("openai: no choices returned")
	}
	if p.debug {
		logging.LogRequest("LLM->EVAL", p.name, p.model, "", resp)
	}

	result := providers.CompletionResult{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Duration:     time.Since(start),
	}
	if resp.Usage.PromptTokensDetails != nil {
		result.CachedTokens = resp.Usage.PromptTokensDetails.CachedTokens
	}
	if result.Model == "" {
		result.Model = p.model
	}
	return result, nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
