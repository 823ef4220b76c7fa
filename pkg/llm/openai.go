package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

type OpenAI struct {
	apiKey    string
	baseURL   string
	client    *http.Client
	model     string
	maxTokens int
}

func NewOpenAI(opts Options) *OpenAI {
	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAI{
		apiKey:    opts.APIKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{Timeout: opts.Timeout},
		model:     model,
		maxTokens: opts.maxTokens(),
	}
}

func (o *OpenAI) Chat(ctx context.Context, messages []Message) (string, error) {
	body := map[string]interface{}{
		"model":       o.model,
		"messages":    messages,
		"max_tokens":  o.maxTokens,
		"temperature": 0,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.apiKey))

	slog.Debug("sending chat completion", "provider", ProviderOpenAI, "model", o.model, "bytes", len(jsonBody))

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &RemoteCallError{Provider: ProviderOpenAI, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RemoteCallError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteCallError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	// Content is a pointer so a null or missing field is told apart from an empty reply.
	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &openaiResp); err != nil {
		slog.Warn("OpenAI reply is not JSON, using raw body", "error", err)
		return string(respBytes), nil
	}
	if len(openaiResp.Choices) == 0 || openaiResp.Choices[0].Message.Content == nil {
		slog.Warn("OpenAI reply has no message content, using raw body")
		return string(respBytes), nil
	}
	return *openaiResp.Choices[0].Message.Content, nil
}

// GetModel returns the model being used by this OpenAI client
func (o *OpenAI) GetModel() string {
	return o.model
}
