package llm

import (
	"fmt"
	"strings"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// ParseProvider normalizes a provider name. An empty name selects OpenAI.
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "openai":
		return ProviderOpenAI, nil
	case "claude", "anthropic":
		return ProviderClaude, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s (supported: openai, claude)", name)
	}
}

// New creates an LLM instance for the provider.
func New(provider Provider, opts Options) (LLM, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(opts), nil
	case ProviderClaude:
		return NewClaude(opts), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// Providers returns the supported LLM providers
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderClaude}
}

// DefaultModel returns the model used when none is configured.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderClaude:
		return DefaultClaudeModel
	default:
		return DefaultOpenAIModel
	}
}

// CredentialEnv names the environment variable holding the provider's API key.
func (p Provider) CredentialEnv() string {
	switch p {
	case ProviderClaude:
		return "ANTHROPIC_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ModelEnv names the environment variable that overrides the default model.
func (p Provider) ModelEnv() string {
	switch p {
	case ProviderClaude:
		return "CLAUDE_MODEL"
	default:
		return "OPENAI_MODEL"
	}
}
