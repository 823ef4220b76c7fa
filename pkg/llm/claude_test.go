package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func TestClaudeChat_Request(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody struct {
		Model    string      `json:"model"`
		System   []textBlock `json:"system"`
		Messages []struct {
			Role    string      `json:"role"`
			Content []textBlock `json:"content"`
		} `json:"messages"`
		MaxTokens   int      `json:"max_tokens"`
		Temperature *float64 `json:"temperature"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"[1,2]"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	client := NewClaude(Options{APIKey: "ant-key", BaseURL: srv.URL})
	reply, err := client.Chat(context.Background(), testMessages)
	require.NoError(t, err)

	assert.Equal(t, "[1,2]", reply)
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "ant-key", gotKey)
	assert.NotEmpty(t, gotVersion)
	assert.Equal(t, DefaultClaudeModel, gotBody.Model)
	require.Len(t, gotBody.System, 1)
	assert.Equal(t, "you analyze logs", gotBody.System[0].Text)
	assert.Equal(t, DefaultMaxTokens, gotBody.MaxTokens)
	require.NotNil(t, gotBody.Temperature)
	assert.Zero(t, *gotBody.Temperature)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, RoleUser, gotBody.Messages[0].Role)
	require.Len(t, gotBody.Messages[0].Content, 1)
	assert.Equal(t, testMessages[1].Content, gotBody.Messages[0].Content[0].Text)
}

func TestClaudeChat_NoTextFallsBackToBody(t *testing.T) {
	body := `{"id":"msg_1","type":"message","role":"assistant","content":[],"stop_reason":"max_tokens"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClaude(Options{APIKey: "k", BaseURL: srv.URL})
	reply, err := client.Chat(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, body, reply)
}

func TestClaudeChat_NonJSONFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("upstream said hi"))
	}))
	defer srv.Close()

	client := NewClaude(Options{APIKey: "k", BaseURL: srv.URL})
	reply, err := client.Chat(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "upstream said hi", reply)
}

func TestClaudeChat_StatusError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	client := NewClaude(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := client.Chat(context.Background(), testMessages)

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, http.StatusTooManyRequests, rce.StatusCode)
	assert.Equal(t, ProviderClaude, rce.Provider)
	assert.Contains(t, rce.Body, "slow down")
	assert.True(t, errors.Is(err, ErrRemoteCall))
	assert.Equal(t, 1, calls, "requests are not retried")
}

func TestClaudeChat_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClaude(Options{APIKey: "k", BaseURL: url})
	_, err := client.Chat(context.Background(), testMessages)

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.NotNil(t, rce.Err)
	assert.True(t, errors.Is(err, ErrRemoteCall))
}
