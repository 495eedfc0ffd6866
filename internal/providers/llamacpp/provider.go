// internal/providers/llamacpp/provider.go
// Package llamacpp provides a Provider backed by llama.cpp's
// OpenAI-compatible HTTP API.
package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/logging"
	"github.com/mwiater/modeleval/internal/providers"
)

// Provider implements the providers.Provider interface against a llama.cpp
// server. Requests go through the OpenAI-compatible /v1/chat/completions
// endpoint, so llama-server needs no extra flags.
type Provider struct {
	name    string
	model   string
	baseURL string
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// New constructs a Provider bound to one configured endpoint and model.
func New(cfg *appconfig.Config, pc appconfig.ProviderConfig) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		name:    pc.Name,
		model:   pc.ModelName(),
		baseURL: pc.Endpoint(),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// chatResponse is the non-streaming /v1/chat/completions response shape.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Name identifies the provider instance from configuration.
func (p *Provider) Name() string { return p.name }

// Model returns the model identifier requests are issued against.
func (p *Provider) Model() string { return p.model }

// Complete issues a non-streaming chat request and returns the full response.
func (p *Provider) Complete(ctx context.Context, messages []providers.Message, opts providers.Options) (providers.CompletionResult, error) {
	if len(messages) == 0 {
		messages = []providers.Message{}
	}

	payload := map[string]any{
		"model":       p.model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"stream":      false,
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.JSONMode {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.CompletionResult{}, err
	}
	if p.debug {
		logging.LogRequest("EVAL->LLM", p.name, p.model, "", body)
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return providers.CompletionResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return providers.CompletionResult{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.CompletionResult{}, err
	}
	if p.debug {
		logging.LogRequest("LLM->EVAL", p.name, p.model, "", respBody)
	}

	if resp.StatusCode != http.StatusOK {
		return providers.CompletionResult{}, fmt.Errorf("llama.cpp: /v1/chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return providers.CompletionResult{}, fmt.Errorf("llama.cpp: decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return providers.CompletionResult{}, fmt.Errorf("llama.cpp: chat response contained no choices")
	}

	result := providers.CompletionResult{
		Content:      chat.Choices[0].Message.Content,
		Model:        chat.Model,
		InputTokens:  chat.Usage.PromptTokens,
		OutputTokens: chat.Usage.CompletionTokens,
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
