package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indian-hedge-fund/internal/llm"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", srv.URL+"/v1")
	c, err := New(store.LLMConfig{Model: "gpt-4o-mini", MaxTokens: 300, Temperature: 0.1})
	require.NoError(t, err)
	return c
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New(store.LLMConfig{})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestCompleteSendsJSONModeRequest(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" {\"signal\":\"bearish\",\"confidence\":60,\"reasoning\":\"debt\"} "},"finish_reason":"stop"}]}`))
	})

	out, err := c.Complete(context.Background(), types.Completion{System: "be Buffett", User: "HDFCBANK", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"signal":"bearish","confidence":60,"reasoning":"debt"}`, out)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "HDFCBANK", msgs[1].(map[string]any)["content"])
}

func TestCompleteAuthErrorIsPermanent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := c.Complete(context.Background(), types.Completion{User: "x"})
	require.Error(t, err)
	var perm *backoff.PermanentError
	assert.ErrorAs(t, err, &perm)
	assert.Contains(t, err.Error(), "openai http 401")
}

func TestCompleteServerErrorIsRetryable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	})

	_, err := c.Complete(context.Background(), types.Completion{User: "x"})
	require.Error(t, err)
	var perm *backoff.PermanentError
	assert.False(t, errors.As(err, &perm))
}
