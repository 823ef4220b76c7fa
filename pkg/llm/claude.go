package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultClaudeModel = "claude-sonnet-4-20250514"

type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

func NewClaude(opts Options) *Claude {
	model := opts.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &Claude{
		client:    anthropic.NewClient(clientOpts...),
		model:     model,
		maxTokens: opts.maxTokens(),
	}
}

func (c *Claude) Chat(ctx context.Context, messages []Message) (string, error) {
	// The Messages API takes the system prompt as a top-level field.
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleUser:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	slog.Debug("sending messages request", "provider", ProviderClaude, "model", c.model, "messages", len(turns))

	// Keep the raw body so a reply the SDK cannot decode is still usable.
	var raw []byte
	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(0),
		System:      system,
		Messages:    turns,
	}, option.WithResponseBodyInto(&raw))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &RemoteCallError{Provider: ProviderClaude, StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", &RemoteCallError{Provider: ProviderClaude, Err: err}
	}

	var msg anthropic.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Warn("Claude reply is not JSON, using raw body", "error", err)
		return string(raw), nil
	}

	var text []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = append(text, block.Text)
		}
	}
	if len(text) == 0 {
		slog.Warn("Claude reply has no text content, using raw body", "stop_reason", msg.StopReason)
		return string(raw), nil
	}
	return strings.Join(text, ""), nil
}

// GetModel returns the model being used by this Claude client
func (c *Claude) GetModel() string {
	return c.model
}
