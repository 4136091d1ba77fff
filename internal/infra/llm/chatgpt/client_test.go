package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletion(t *testing.T) {
	var captured ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta/openai/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gemini-2.5-flash","choices":[{"message":{"role":"assistant","content":"All clear."},"finish_reason":"stop"}],"usage":{"prompt_tokens":80,"completion_tokens":12,"total_tokens":92}}`))
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL+"/v1beta/openai/", 0)
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "gemini-2.5-flash",
		Messages: []Message{{Role: "user", Content: "report"}},
	})
	require.NoError(t, err)
	require.Equal(t, "All clear.", resp.Text())
	require.NotNil(t, resp.Usage)
	require.Equal(t, 92, resp.Usage.TotalTokens)
	require.Equal(t, "gemini-2.5-flash", captured.Model)
	require.Equal(t, "report", captured.Messages[0].Content)
}

func TestCreateChatCompletionErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL, 0)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}

func TestCreateChatCompletionMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := NewClient("secret", server.URL, 0)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	require.ErrorContains(t, err, "decode chat completion")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "", 0)
	require.Error(t, err)
}

func TestTextWithoutChoices(t *testing.T) {
	require.Equal(t, "", ChatCompletionResponse{}.Text())
}

func TestUnavailableAlwaysFails(t *testing.T) {
	_, err := Unavailable{Reason: "llm api key not configured"}.CreateChatCompletion(context.Background(), ChatCompletionRequest{})
	require.EqualError(t, err, "llm api key not configured")
}
