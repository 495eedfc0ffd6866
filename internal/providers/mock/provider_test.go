// internal/providers/mock/provider_test.go
package mock

import (
	"context"
	"testing"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/providers"
)

func complete(t *testing.T, p *Provider, prompts ...string) providers.CompletionResult {
	t.Helper()
	messages := make([]providers.Message, 0, len(prompts))
	for _, prompt := range prompts {
		messages = append(messages, providers.Message{Role: providers.RoleUser, Content: prompt})
	}
	result, err := p.Complete(context.Background(), messages, providers.Options{})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	return result
}

func TestCompleteMatchesSubstring(t *testing.T) {
	t.Parallel()

	p := New(appconfig.ProviderConfig{
		Name: "m",
		Type: appconfig.TypeMock,
		Responses: map[string]string{
			"capital of France": "Paris",
			"founded":           "2019",
		},
		DefaultResponse: "fallback",
	})

	if got := complete(t, p, "What is the capital of France?"); got.Content != "Paris" {
		t.Fatalf("unexpected response: %q", got.Content)
	}
	if got := complete(t, p, "When was the company founded?"); got.Content != "2019" {
		t.Fatalf("unexpected response: %q", got.Content)
	}
	if got := complete(t, p, "Something else entirely"); got.Content != "fallback" {
		t.Fatalf("unexpected fallback: %q", got.Content)
	}
}

func TestCompleteLongestKeyWins(t *testing.T) {
	t.Parallel()

	p := New(appconfig.ProviderConfig{
		Name: "m",
		Type: appconfig.TypeMock,
		Responses: map[string]string{
			"weather":          "generic",
			"weather in Tokyo": "sunny in Tokyo",
		},
	})

	if got := complete(t, p, "What is the weather in Tokyo?"); got.Content != "sunny in Tokyo" {
		t.Fatalf("expected most specific key to win, got %q", got.Content)
	}
	if got := complete(t, p, "weather report please"); got.Content != "generic" {
		t.Fatalf("unexpected response: %q", got.Content)
	}
}

func TestCompleteMatchesAcrossTurns(t *testing.T) {
	t.Parallel()

	p := New(appconfig.ProviderConfig{
		Name:      "m",
		Type:      appconfig.TypeMock,
		Responses: map[string]string{"Fix the JSON": `{"name": "John", "age": 30}`},
	})

	got := complete(t, p,
		"Return a person record.",
		"Fix the JSON. Respond with valid JSON only.",
	)
	if got.Content != `{"name": "John", "age": 30}` {
		t.Fatalf("retry nudge did not match: %q", got.Content)
	}
}

func TestCompleteDefaults(t *testing.T) {
	t.Parallel()

	p := New(appconfig.ProviderConfig{Name: "m", Type: appconfig.TypeMock})
	if p.Model() != "mock-model" {
		t.Fatalf("unexpected model: %q", p.Model())
	}
	got := complete(t, p, "anything")
	if got.Content != "Mock response" {
		t.Fatalf("unexpected default: %q", got.Content)
	}
	if got.InputTokens != 1 || got.OutputTokens != 2 {
		t.Fatalf("unexpected token estimate: %+v", got)
	}
}

func TestCompleteHonorsContext(t *testing.T) {
	t.Parallel()

	p := New(appconfig.ProviderConfig{Name: "m", Type: appconfig.TypeMock})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Complete(ctx, nil, providers.Options{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
