// internal/providers/mock/provider.go
// Package mock provides a deterministic offline Provider for tests and dry
// runs. Responses are selected by substring match against the joined prompt;
// when several keys match, the longest key wins so the most specific canned
// answer is returned.
package mock

import (
	"context"
	"sort"
	"strings"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/providers"
)

// defaultResponse is returned when no canned response key matches.
const defaultResponse = "Mock response"

// Provider implements the providers.Provider interface with canned responses.
type Provider struct {
	name     string
	model    string
	keys     []string
	canned   map[string]string
	fallback string
}

// New constructs a Provider from configuration.
func New(pc appconfig.ProviderConfig) *Provider {
	keys := make([]string, 0, len(pc.Responses))
	for k := range pc.Responses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	fallback := pc.DefaultResponse
	if fallback == "" {
		fallback = defaultResponse
	}

	return &Provider{
		name:     pc.Name,
		model:    pc.ModelName(),
		keys:     keys,
		canned:   pc.Responses,
		fallback: fallback,
	}
}

// Name identifies the provider instance from configuration.
func (p *Provider) Name() string { return p.name }

// Model returns the model identifier requests are issued against.
func (p *Provider) Model() string { return p.model }

// Complete returns the canned response for the first matching key.
func (p *Provider) Complete(ctx context.Context, messages []providers.Message, opts providers.Options) (providers.CompletionResult, error) {
	if err := ctx.Err(); err != nil {
		return providers.CompletionResult{}, err
	}

	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	prompt := strings.Join(parts, "\n")

	content := p.fallback
	for _, key := range p.keys {
		if strings.Contains(prompt, key) {
			content = p.canned[key]
			break
		}
	}

	return providers.CompletionResult{
		Content:      content,
		Model:        p.model,
		InputTokens:  len(strings.Fields(prompt)),
		OutputTokens: len(strings.Fields(content)),
	}, nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}
