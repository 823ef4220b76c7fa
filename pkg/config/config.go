package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/helmcode/log-analyzer/pkg/llm"
)

// EnvPrefix scopes the tool's own environment variables, e.g. LOG_ANALYZER_MODEL.
const EnvPrefix = "LOG_ANALYZER"

// ErrMissingCredential is returned when no API key is set for the provider.
var ErrMissingCredential = errors.New("missing API credential")

// Config holds everything needed to reach the remote model.
type Config struct {
	Provider llm.Provider
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// LoadDotenv overlays variables from the given files (default ".env") onto the
// process environment. Variables already set are left untouched and missing
// files are ignored. A file that cannot be parsed is skipped with a warning;
// only a file that exists but cannot be read is an error.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("load %s: %w", p, err)
		}
		slog.Warn("ignoring malformed env file", "path", p, "error", err)
	}
	return nil
}

// Load resolves the configuration from command-line flags and the environment.
// A flag set on the command line wins over LOG_ANALYZER_* variables, which win
// over the provider's own variables (OPENAI_MODEL, CLAUDE_MODEL).
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	provider, err := llm.ParseProvider(v.GetString("provider"))
	if err != nil {
		return nil, err
	}

	keyEnv := provider.CredentialEnv()
	apiKey := strings.TrimSpace(os.Getenv(keyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: please set the %s environment variable", ErrMissingCredential, keyEnv)
	}

	model := v.GetString("model")
	if model == "" {
		model = os.Getenv(provider.ModelEnv())
	}
	if model == "" {
		model = provider.DefaultModel()
	}

	return &Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
		BaseURL:  v.GetString("base-url"),
		Timeout:  v.GetDuration("timeout"),
	}, nil
}

// LLMOptions converts the configuration for the provider client.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		APIKey:    c.APIKey,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: llm.DefaultMaxTokens,
	}
}
