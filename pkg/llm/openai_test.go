package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessages = []Message{
	{Role: RoleSystem, Content: "you analyze logs"},
	{Role: RoleUser, Content: "Analyze the following log. Output JSON only.\n\nLOG:\nboom"},
}

func TestOpenAIChat_Request(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAI(Options{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	reply, err := client.Chat(context.Background(), testMessages)
	require.NoError(t, err)

	assert.Equal(t, `{"summary":"ok"}`, reply)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, DefaultOpenAIModel, gotBody["model"])
	assert.Equal(t, float64(0), gotBody["temperature"])
	assert.Equal(t, float64(DefaultMaxTokens), gotBody["max_tokens"])

	msgs, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", msgs[1].(map[string]interface{})["role"])
}

func TestOpenAIChat_ModelOverride(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		w.Write([]byte(`{"choices":[{"message":{"content":"hi"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenAI(Options{APIKey: "k", Model: "gpt-4o", BaseURL: srv.URL})
	_, err := client.Chat(context.Background(), testMessages)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", gotModel)
	assert.Equal(t, "gpt-4o", client.GetModel())
}

func TestOpenAIChat_MalformedReplyFallsBackToBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"id":"chatcmpl-1","choices":[]}`},
		{"null content", `{"choices":[{"message":{"content":null}}]}`},
		{"missing message", `{"choices":[{}]}`},
		{"not json", `upstream said hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewOpenAI(Options{APIKey: "k", BaseURL: srv.URL})
			reply, err := client.Chat(context.Background(), testMessages)
			require.NoError(t, err)
			assert.Equal(t, tt.body, reply)
		})
	}
}

func TestOpenAIChat_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client := NewOpenAI(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := client.Chat(context.Background(), testMessages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteCall))

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, http.StatusUnauthorized, rce.StatusCode)
	assert.Equal(t, ProviderOpenAI, rce.Provider)
	assert.Contains(t, err.Error(), "bad key")
}

func TestOpenAIChat_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewOpenAI(Options{APIKey: "k", BaseURL: url})
	_, err := client.Chat(context.Background(), testMessages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteCall))

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.NotNil(t, rce.Err)
}
