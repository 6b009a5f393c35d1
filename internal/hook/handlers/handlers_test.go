package handlers

import (
	"context"
	"testing"
	"time"

	"fxagent/internal/hook"
	"fxagent/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorded struct {
	kind, name, status string
	duration           time.Duration
}

type fakeRecorder struct {
	events []recorded
}

func (r *fakeRecorder) RecordToolCall(tool, status string, d time.Duration) {
	r.events = append(r.events, recorded{"tool", tool, status, d})
}

func (r *fakeRecorder) RecordQuery(provider, status string, d time.Duration) {
	r.events = append(r.events, recorded{"query", provider, status, d})
}

func TestMetricsHandler(t *testing.T) {
	rec := &fakeRecorder{}
	m := hook.NewManager()
	m.Register(NewMetricsHandler(rec))

	ctx := context.Background()
	_, err := m.Trigger(ctx, hook.NewHookData(hook.AfterToolExecution, "get_currency_rates").
		Set("success", true).
		Set("duration", 5*time.Millisecond))
	require.NoError(t, err)

	_, err = m.Trigger(ctx, hook.NewHookData(hook.OnAgentEnd, "").
		Set("provider", "local").
		Set("success", false).
		Set("duration", time.Second))
	require.NoError(t, err)

	// before hooks are not observed
	_, err = m.Trigger(ctx, hook.NewHookData(hook.BeforeToolExecution, "get_currency_rates"))
	require.NoError(t, err)

	assert.Equal(t, []recorded{
		{"tool", "get_currency_rates", "success", 5 * time.Millisecond},
		{"query", "local", "error", time.Second},
	}, rec.events)
}

func TestLoggingHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewLoggingHandler(logger.FromZap(zap.New(core)))

	ctx := context.Background()
	_, err := h.Handle(ctx, hook.NewHookData(hook.OnAgentStart, "").Set("query", "USD to EUR?"))
	require.NoError(t, err)
	_, err = h.Handle(ctx, hook.NewHookData(hook.OnAgentEnd, "").
		Set("duration", time.Second).
		Set("tool_calls", 2).
		Set("error", "max iterations"))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("session started").Len())
	assert.Equal(t, 1, logs.FilterMessage("session completed").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	end := logs.FilterMessage("session completed").All()[0].ContextMap()
	assert.Equal(t, int64(2), end["tool_calls"])
}
