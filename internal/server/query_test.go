package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fxagent/internal/agent"
	"fxagent/internal/config"
	"fxagent/internal/exchangerate"
	"fxagent/internal/llm"
	"fxagent/internal/tool"
	"fxagent/internal/tool/currency"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookupLoop asks for the same pair on every turn and never answers
type lookupLoop struct {
	mu       sync.Mutex
	requests []*llm.ChatRequest
}

func (c *lookupLoop) Chat(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	return &llm.ChatResponse{
		Message: llm.Message{
			Role: llm.RoleAssistant,
			ToolCalls: []*llm.ToolCall{{
				ID:   "call_pair",
				Type: "function",
				Function: &llm.FunctionCall{
					Name:      currency.PairToolName,
					Arguments: `{"currency_pair":"USD to EUR"}`,
				},
			}},
		},
		StopReason: llm.StopReasonToolCalls,
	}, nil
}

func (c *lookupLoop) Provider() string { return "openai" }
func (c *lookupLoop) Model() string    { return "gpt-3.5-turbo" }

func newAgentServer(t *testing.T, client llm.Client) *Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	registry := tool.NewRegistry()
	require.NoError(t, currency.Register(registry, exchangerate.New(exchangerate.Config{APIKey: "key", BaseURL: upstream.URL}, nil)))

	cfg := &agent.Config{Provider: config.ProviderOpenAI, Model: "gpt-3.5-turbo", Temperature: 0.1, MaxTokens: 1000, MaxIterations: 3}
	inner, err := agent.NewToolsAgent(cfg, client, tool.NewExecutor(registry), nil)
	require.NoError(t, err)

	return New(agent.NewCurrencyAgent(inner, nil), nil, nil)
}

func TestQuery_ToolErrorsOnlyEndInFailure(t *testing.T) {
	for _, path := range []string{"/query", "/query-sync"} {
		t.Run(path, func(t *testing.T) {
			client := &lookupLoop{}
			s := newAgentServer(t, client)

			rec := post(t, s.Handler(), path, `{"message":"What is USD to EUR?"}`)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t,
				`{"success":false,"response":"","error":"Agent processing failed: 3 iterations: agent stopped due to iteration limit"}`,
				rec.Body.String())

			require.Len(t, client.requests, 3)
			last := client.requests[2].Messages
			observation := last[len(last)-1]
			assert.Equal(t, llm.RoleTool, observation.Role)
			assert.Contains(t, observation.Content, "Error fetching currency rates: ")
		})
	}
}
