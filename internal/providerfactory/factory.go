// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/providers"
	"github.com/mwiater/modeleval/internal/providers/anthropic"
	"github.com/mwiater/modeleval/internal/providers/llamacpp"
	"github.com/mwiater/modeleval/internal/providers/mock"
	"github.com/mwiater/modeleval/internal/providers/ollama"
	"github.com/mwiater/modeleval/internal/providers/openai"
)

// New selects and configures the provider implementation for one configured
// endpoint based on its type.
func New(cfg *appconfig.Config, pc appconfig.ProviderConfig) (providers.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	switch pc.Type {
	case appconfig.TypeOllama:
		return ollama.New(cfg, pc), nil
	case appconfig.TypeLlamaCpp:
		return llamacpp.New(cfg, pc), nil
	case appconfig.TypeOpenAI:
		return openai.New(cfg, pc)
	case appconfig.TypeAnthropic:
		return anthropic.New(cfg, pc)
	case appconfig.TypeMock:
		return mock.New(pc), nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q", pc.Type)
	}
}

// All constructs every configured provider. On failure the already-built
// providers are closed and the error names the offending entry.
func All(cfg *appconfig.Config) ([]providers.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	built := make([]providers.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		provider, err := New(cfg, pc)
		if err != nil {
			CloseAll(built)
			return nil, fmt.Errorf("provider %q: %w", pc.Name, err)
		}
		built = append(built, provider)
	}
	return built, nil
}

// CloseAll closes the given providers, ignoring individual close errors.
func CloseAll(list []providers.Provider) {
	for _, p := range list {
		_ = p.Close()
	}
}
