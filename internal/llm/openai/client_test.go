package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fxagent/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	provider string
	status   string
	calls    int
}

func (o *recordingObserver) ObserveLLM(provider, status string, _ time.Duration) {
	o.provider = provider
	o.status = status
	o.calls++
}

func newBackend(t *testing.T, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
}

func TestChat_TextReply(t *testing.T) {
	var body map[string]any
	srv := newBackend(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Final Answer: 0.92"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
	}`, &body)
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewClient(Options{Model: "llama3.1", BaseURL: srv.URL + "/v1", Provider: "local", Observer: obs})

	resp, err := client.Chat(context.Background(), &llm.ChatRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: "USD to EUR?"}},
		Temperature: 0.1,
		MaxTokens:   100,
		Stop:        []string{"\nObservation:"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Final Answer: 0.92", resp.Message.Content)
	assert.Equal(t, llm.StopReasonStop, resp.StopReason)
	assert.Equal(t, 14, resp.Usage.TotalTokens)

	assert.Equal(t, "llama3.1", body["model"])
	assert.Equal(t, []any{"\nObservation:"}, body["stop"])
	assert.Nil(t, body["tools"])

	assert.Equal(t, "local", client.Provider())
	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, "local", obs.provider)
	assert.Equal(t, "success", obs.status)
}

func TestChat_ToolCalls(t *testing.T) {
	var body map[string]any
	srv := newBackend(t, `{
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "",
			"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "get_currency_rates", "arguments": "{\"base_currency\":\"USD\"}"}}]},
			"finish_reason": "tool_calls"}]
	}`, &body)
	defer srv.Close()

	client := NewClient(Options{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})

	resp, err := client.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "system"},
			{Role: llm.RoleUser, Content: "rates?"},
		},
		Tools: []*llm.ToolDefinition{{
			Type: "function",
			Function: &llm.FunctionDef{
				Name:        "get_currency_rates",
				Description: "rates",
				Parameters:  map[string]any{"type": "object"},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, llm.StopReasonToolCalls, resp.StopReason)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.Message.ToolCalls[0].ID)
	assert.Equal(t, "get_currency_rates", resp.Message.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"base_currency":"USD"}`, resp.Message.ToolCalls[0].Function.Arguments)

	tools, ok := body["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 1)
	assert.Equal(t, "openai", client.Provider())
}

func TestChat_NoChoices(t *testing.T) {
	srv := newBackend(t, `{"choices": []}`, nil)
	defer srv.Close()

	client := NewClient(Options{Model: "m", BaseURL: srv.URL + "/v1"})
	_, err := client.Chat(context.Background(), &llm.ChatRequest{})
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestChat_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewClient(Options{Model: "m", BaseURL: srv.URL + "/v1", Observer: obs})
	_, err := client.Chat(context.Background(), &llm.ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
	assert.Equal(t, "error", obs.status)
}
