// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.yaml"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.yaml"
	// defaultRequestTimeout is the default timeout for a single completion request.
	defaultRequestTimeout = 600 * time.Second
	// defaultMaxTokens caps completion length when the config omits the value.
	defaultMaxTokens = 1024
	// defaultResultsDir is where per-model result files and snapshots are written.
	defaultResultsDir = "results"
)

// Provider type identifiers accepted in configuration.
const (
	TypeOpenAI    = "openai"
	TypeAnthropic = "anthropic"
	TypeOllama    = "ollama"
	TypeLlamaCpp  = "llamacpp"
	TypeMock      = "mock"
)

// Config represents the top-level application configuration.
type Config struct {
	Providers      []ProviderConfig `json:"providers" mapstructure:"providers" yaml:"providers"`
	Suites         []string         `json:"suites,omitempty" mapstructure:"suites" yaml:"suites,omitempty"`
	ResultsDir     string           `json:"resultsDir,omitempty" mapstructure:"resultsDir" yaml:"resultsDir,omitempty"`
	TimeoutSeconds int              `json:"timeout,omitempty" mapstructure:"timeout" yaml:"timeout,omitempty"`
	Debug          bool             `json:"debug" mapstructure:"debug" yaml:"debug"`
	LogFile        string           `json:"logFile,omitempty" mapstructure:"logFile" yaml:"logFile,omitempty"`
	RefusalMarkers []string         `json:"refusalMarkers,omitempty" mapstructure:"refusalMarkers" yaml:"refusalMarkers,omitempty"`
	Semantic       SemanticConfig   `json:"semantic,omitempty" mapstructure:"semantic" yaml:"semantic,omitempty"`
	ConfigPath     string           `json:"-" mapstructure:"-" yaml:"-"`
}

// ProviderConfig describes one model endpoint evaluations are issued against.
// Name identifies the entry in results and reports; Type selects the backend
// implementation.
type ProviderConfig struct {
	Name      string `json:"name" mapstructure:"name" yaml:"name"`
	Type      string `json:"type" mapstructure:"type" yaml:"type"`
	Model     string `json:"model,omitempty" mapstructure:"model" yaml:"model,omitempty"`
	BaseURL   string `json:"baseURL,omitempty" mapstructure:"baseURL" yaml:"baseURL,omitempty"`
	APIKeyEnv string `json:"apiKeyEnv,omitempty" mapstructure:"apiKeyEnv" yaml:"apiKeyEnv,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty" mapstructure:"maxTokens" yaml:"maxTokens,omitempty"`

	// Responses and DefaultResponse feed the mock provider; other types
	// ignore them.
	Responses       map[string]string `json:"responses,omitempty" mapstructure:"responses" yaml:"responses,omitempty"`
	DefaultResponse string            `json:"defaultResponse,omitempty" mapstructure:"defaultResponse" yaml:"defaultResponse,omitempty"`
}

// SemanticConfig enables the optional embedding-based similarity scorer.
type SemanticConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	BaseURL string `json:"baseURL,omitempty" mapstructure:"baseURL" yaml:"baseURL,omitempty"`
	Model   string `json:"model,omitempty" mapstructure:"model" yaml:"model,omitempty"`
}

// RequestTimeout returns the timeout duration for completion requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "modeleval.log"
}

// ResultsPath returns the directory result files are written to, applying a default if not set.
func (c Config) ResultsPath() string {
	if dir := strings.TrimSpace(c.ResultsDir); dir != "" {
		return dir
	}
	return defaultResultsDir
}

// ProviderNamed returns the provider entry with the given name.
func (c Config) ProviderNamed(name string) (ProviderConfig, bool) {
	for _, pc := range c.Providers {
		if pc.Name == name {
			return pc, true
		}
	}
	return ProviderConfig{}, false
}

// ModelName returns the model requests are issued against, applying the mock
// default when unset.
func (pc ProviderConfig) ModelName() string {
	if m := strings.TrimSpace(pc.Model); m != "" {
		return m
	}
	if pc.Type == TypeMock {
		return "mock-model"
	}
	return ""
}

// KeyEnvName returns the environment variable holding the API key for this
// provider, applying the conventional default for the provider type.
func (pc ProviderConfig) KeyEnvName() string {
	if env := strings.TrimSpace(pc.APIKeyEnv); env != "" {
		return env
	}
	switch pc.Type {
	case TypeOpenAI:
		return "OPENAI_API_KEY"
	case TypeAnthropic:
		return "ANTHROPIC_API_KEY"
	}
	return ""
}

// Endpoint returns the base URL for this provider, applying the conventional
// default for the provider type. An empty return means the backend SDK's own
// default endpoint is used.
func (pc ProviderConfig) Endpoint() string {
	if u := strings.TrimSpace(pc.BaseURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	switch pc.Type {
	case TypeOllama:
		return "http://localhost:11434"
	case TypeLlamaCpp:
		return "http://localhost:8080"
	}
	return ""
}

// MaxOutputTokens returns the completion length cap, falling back to the default if not specified.
func (pc ProviderConfig) MaxOutputTokens() int {
	if pc.MaxTokens > 0 {
		return pc.MaxTokens
	}
	return defaultMaxTokens
}

// EmbeddingEndpoint returns the base URL of the embedding host.
func (s SemanticConfig) EmbeddingEndpoint() string {
	if u := strings.TrimSpace(s.BaseURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return "http://localhost:11434"
}

// EmbeddingModel returns the embedding model name.
func (s SemanticConfig) EmbeddingModel() string {
	if m := strings.TrimSpace(s.Model); m != "" {
		return m
	}
	return "nomic-embed-text"
}

// Validate checks the configuration for entries the rest of the application
// cannot work with.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return errors.New("config must contain at least one provider")
	}
	seen := make(map[string]bool, len(c.Providers))
	for i, pc := range c.Providers {
		if strings.TrimSpace(pc.Name) == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if seen[pc.Name] {
			return fmt.Errorf("provider %q: duplicate name", pc.Name)
		}
		seen[pc.Name] = true
		switch pc.Type {
		case TypeOpenAI, TypeAnthropic, TypeOllama, TypeLlamaCpp, TypeMock:
		case "":
			return fmt.Errorf("provider %q: type is required", pc.Name)
		default:
			return fmt.Errorf("provider %q: unsupported type %q", pc.Name, pc.Type)
		}
		if pc.ModelName() == "" {
			return fmt.Errorf("provider %q: model is required", pc.Name)
		}
	}
	return nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if verr := config.Validate(); verr != nil {
			return Config{}, verr
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				if verr := config.Validate(); verr != nil {
					return Config{}, verr
				}
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
