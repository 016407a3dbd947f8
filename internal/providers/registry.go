// registry.go: provider registry, the single source of truth for which
// backend serves a model name and where its credentials come from.

package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when neither config nor environment supplies a key.
var ErrNoAPIKey = errors.New("no API key configured")

// Backend kinds.
const (
	KindGemini = "gemini"
	KindOpenAI = "openai" // any chat-completions compatible endpoint
)

// ProviderSpec holds metadata for one provider.
type ProviderSpec struct {
	Name           string   // e.g. "deepseek"
	Keywords       []string // model-name keywords for matching (lowercase)
	EnvKey         string   // env var for API key
	DisplayName    string   // shown in status
	Kind           string   // KindGemini or KindOpenAI
	DefaultAPIBase string   // fallback base URL
	IsGateway      bool     // serves any model behind a configured base URL
}

// Label returns a display label.
func (s *ProviderSpec) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// Providers is the registry. Order = priority.
var Providers = []*ProviderSpec{
	// Custom (user-provided OpenAI-compatible endpoint)
	{
		Name: "custom", EnvKey: "OPENAI_API_KEY", DisplayName: "Custom",
		Kind: KindOpenAI, IsGateway: true,
	},
	{
		Name: "gemini", Keywords: []string{"gemini"},
		EnvKey: "GEMINI_API_KEY", DisplayName: "Gemini", Kind: KindGemini,
	},
	{
		Name: "openai", Keywords: []string{"openai", "gpt", "o1-", "o3-"},
		EnvKey: "OPENAI_API_KEY", DisplayName: "OpenAI", Kind: KindOpenAI,
	},
	{
		Name: "deepseek", Keywords: []string{"deepseek"},
		EnvKey: "DEEPSEEK_API_KEY", DisplayName: "DeepSeek", Kind: KindOpenAI,
		DefaultAPIBase: "https://api.deepseek.com/v1",
	},
}

// FindByModel returns the provider whose keyword occurs in the model name.
// Gateways are skipped.
func FindByModel(model string) *ProviderSpec {
	lower := strings.ToLower(model)
	for _, spec := range Providers {
		if spec.IsGateway {
			continue
		}
		for _, kw := range spec.Keywords {
			if strings.Contains(lower, kw) {
				return spec
			}
		}
	}
	return nil
}

// FindByName finds a provider spec by name.
func FindByName(name string) *ProviderSpec {
	for _, spec := range Providers {
		if spec.Name == name {
			return spec
		}
	}
	return nil
}

// Options selects and configures a backend.
type Options struct {
	Model        string
	APIKey       string
	APIBase      string
	SystemPrompt string
}

// Resolve picks the provider for opts. An unknown model is routed to the
// custom gateway when an API base is configured.
func Resolve(opts Options) (*ProviderSpec, error) {
	if spec := FindByModel(opts.Model); spec != nil {
		return spec, nil
	}
	if opts.APIBase != "" {
		return FindByName("custom"), nil
	}
	return nil, fmt.Errorf("no provider for model %q (set chat.apiBase for a custom endpoint)", opts.Model)
}

// APIKey returns the configured key, falling back to the provider's env var.
func (s *ProviderSpec) APIKey(configured string) string {
	if configured != "" {
		return configured
	}
	if s.EnvKey == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(s.EnvKey))
}

// New builds the backend serving opts.Model.
func New(ctx context.Context, opts Options) (ChatBackend, error) {
	spec, err := Resolve(opts)
	if err != nil {
		return nil, err
	}
	key := spec.APIKey(opts.APIKey)

	switch spec.Kind {
	case KindGemini:
		return NewGeminiBackend(ctx, key, opts.Model, opts.SystemPrompt)
	default:
		base := opts.APIBase
		if base == "" {
			base = spec.DefaultAPIBase
		}
		return NewOpenAIBackend(key, base, strings.TrimPrefix(opts.Model, spec.Name+"/"), opts.SystemPrompt)
	}
}
