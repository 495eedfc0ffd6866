// internal/providers/ollama/provider_test.go
package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/providers"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	pc := appconfig.ProviderConfig{
		Name:    "local",
		Type:    appconfig.TypeOllama,
		Model:   "llama3.2:3b",
		BaseURL: server.URL,
	}
	return New(cfg, pc)
}

// TestCompleteParsesChatResponse verifies that a non-streaming chat request is
// issued with stream disabled and that token and timing metadata survive the
// round trip.
func TestCompleteParsesChatResponse(t *testing.T) {
	t.Parallel()

	var capturedBody []byte
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/api/chat" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		capturedBody = body
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"model":"llama3.2:3b","message":{"role":"assistant","content":"Paris"},"done":true,"total_duration":123456789,"prompt_eval_count":12,"eval_count":34}`))
	})

	result, err := provider.Complete(context.Background(), []providers.Message{
		{Role: providers.RoleUser, Content: "What is the capital of France?"},
	}, providers.Options{MaxTokens: 256})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if result.Content != "Paris" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if result.Model != "llama3.2:3b" {
		t.Fatalf("unexpected model: %q", result.Model)
	}
	if result.InputTokens != 12 || result.OutputTokens != 34 {
		t.Fatalf("unexpected usage: in=%d out=%d", result.InputTokens, result.OutputTokens)
	}
	if result.TotalTokens() != 46 {
		t.Fatalf("unexpected total tokens: %d", result.TotalTokens())
	}
	if result.Duration != 123456789*time.Nanosecond {
		t.Fatalf("unexpected duration: %v", result.Duration)
	}

	var payload map[string]any
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if stream, ok := payload["stream"].(bool); !ok || stream {
		t.Fatalf("expected stream=false, got %v", payload["stream"])
	}
	options, ok := payload["options"].(map[string]any)
	if !ok {
		t.Fatalf("expected options map, got %T", payload["options"])
	}
	if temp, ok := options["temperature"].(float64); !ok || temp != 0 {
		t.Fatalf("expected temperature 0, got %v", options["temperature"])
	}
	if predict, ok := options["num_predict"].(float64); !ok || predict != 256 {
		t.Fatalf("expected num_predict 256, got %v", options["num_predict"])
	}
	if _, present := payload["format"]; present {
		t.Fatalf("format should be absent without JSON mode, got %v", payload["format"])
	}
}

// TestCompleteJSONMode verifies the format field is present when JSON mode is requested.
func TestCompleteJSONMode(t *testing.T) {
	t.Parallel()

	var capturedBody []byte
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capturedBody = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{}"},"done":true}`))
	})

	result, err := provider.Complete(context.Background(), []providers.Message{
		{Role: providers.RoleUser, Content: "Respond with valid JSON only."},
	}, providers.Options{JSONMode: true})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if result.Model != "llama3.2:3b" {
		t.Fatalf("expected configured model fallback, got %q", result.Model)
	}

	var payload map[string]any
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if format, ok := payload["format"].(string); !ok || format != "json" {
		t.Fatalf("expected format json, got %v", payload["format"])
	}
}

// TestCompleteErrorStatus verifies non-200 responses surface as errors.
func TestCompleteErrorStatus(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	})

	_, err := provider.Complete(context.Background(), []providers.Message{
		{Role: providers.RoleUser, Content: "hello"},
	}, providers.Options{})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "/api/chat returned") {
		t.Fatalf("unexpected error: %v", err)
	}
}
