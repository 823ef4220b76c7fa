package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxTokens caps the length of a single reply.
const DefaultMaxTokens = 1500

// ErrRemoteCall is matched by every RemoteCallError.
var ErrRemoteCall = errors.New("remote model call failed")

// LLM sends a conversation to a remote chat-completion API and returns the
// text of the first reply choice.
type LLM interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	GetModel() string
}

// Message is a single role-tagged entry of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Options configures a provider client.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	// Timeout bounds the whole HTTP exchange. Zero blocks until the API responds.
	Timeout   time.Duration
	MaxTokens int
}

func (o Options) maxTokens() int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return DefaultMaxTokens
}

// RemoteCallError reports a failed request to the provider: either the
// transport failed (Err set) or the API answered with a non-2xx status.
type RemoteCallError struct {
	Provider   Provider
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *RemoteCallError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRemoteCall, e.Err}
	}
	return []error{ErrRemoteCall}
}
