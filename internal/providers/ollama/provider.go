// internal/providers/ollama/provider.go
// Package ollama provides a Provider backed by Ollama-compatible HTTP endpoints.
package ollama

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

// Provider implements the providers.Provider interface using the Ollama chat API.
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

// chatResponse defines the structure of a non-streaming /api/chat response.
type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done               bool  `json:"done"`
	TotalDuration      int64 `json:"total_duration"`
	LoadDuration       int64 `json:"load_duration"`
	PromptEvalCount    int   `json:"prompt_eval_count"`
	PromptEvalDuration int64 `json:"prompt_eval_duration"`
	EvalCount          int   `json:"eval_count"`
	EvalDuration       int64 `json:"eval_duration"`
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

	options := map[string]any{"temperature": opts.Temperature}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	payload := map[string]any{
		"model":    p.model,
		"messages": messages,
		"options":  options,
		"stream":   false,
	}
	if opts.JSONMode {
		payload["format"] = "json"
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

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
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
		return providers.CompletionResult{}, fmt.Errorf("ollama: /api/chat returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return providers.CompletionResult{}, fmt.Errorf("ollama: decode /api/chat response: %w", err)
	}

	result := providers.CompletionResult{
		Content:      chat.Message.Content,
		Model:        chat.Model,
		InputTokens:  chat.PromptEvalCount,
		OutputTokens: chat.EvalCount,
		Duration:     time.Duration(chat.TotalDuration),
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
