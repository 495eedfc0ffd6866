// internal/semantic/semantic.go
// Package semantic scores answer similarity with embedding vectors from an
// Ollama-compatible endpoint. The scorer is optional; classification works
// without it and simply omits the similarity metric.
package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/modeleval/internal/appconfig"
)

// Scorer requests embeddings and reports cosine similarity between texts.
type Scorer struct {
	client  *http.Client
	baseURL string
	model   string
	timeout time.Duration
}

// New constructs a Scorer from the semantic section of the configuration.
func New(sc appconfig.SemanticConfig, timeout time.Duration) *Scorer {
	return &Scorer{
		client:  &http.Client{Timeout: timeout},
		baseURL: sc.EmbeddingEndpoint(),
		model:   sc.EmbeddingModel(),
		timeout: timeout,
	}
}

// Similarity embeds both texts and returns their cosine similarity.
func (s *Scorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecA, err := s.embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vecB, err := s.embed(ctx, b)
	if err != nil {
		return 0, err
	}
	if len(vecA) != len(vecB) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(vecA), len(vecB))
	}
	return cosineSimilarity(vecA, vecB), nil
}

// Func binds the scorer to a context and returns it in the shape the
// classification engine accepts.
func (s *Scorer) Func(ctx context.Context) func(a, b string) (float64, error) {
	return func(a, b string) (float64, error) {
		return s.Similarity(ctx, a, b)
	}
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// embed requests an embedding vector from the configured embedding model.
func (s *Scorer) embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(s.model) == "" {
		return nil, fmt.Errorf("embedding model is empty")
	}
	payload := map[string]any{
		"model":  s.model,
		"prompt": text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response returned empty vector")
	}

	return parsed.Embedding, nil
}

func cosineSimilarity(a, b []float64) float64 {
	normA := vectorNorm(a)
	if normA == 0 {
		return 0
	}
	normB := vectorNorm(b)
	if normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}
