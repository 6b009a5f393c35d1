package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"chatty", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		log, err := New(level)
		require.NoError(t, err, level)
		require.NotNil(t, log)
		_ = log.Sync()
	}
}

func TestToolResultTruncatesOutput(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.ToolResult("get_currency_rates", true, strings.Repeat("x", 2000), 15*time.Millisecond)

	entries := logs.FilterMessage("tool result").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "get_currency_rates", fields["tool"])
	assert.Equal(t, true, fields["success"])
	out, _ := fields["output"].(string)
	assert.Less(t, len(out), 600)
	assert.Contains(t, out, "(2000 bytes)")
}

func TestSessionEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))

	log.SessionStart("What is the USD to EUR rate?")
	log.ToolCall("get_specific_currency_rate", ` {"currency_pair":"USD to EUR"} `)
	log.SessionEnd(1500*time.Microsecond, 1)
	log.AgentResponse("hidden at info level")

	assert.Equal(t, 1, logs.FilterMessage("session started").Len())
	assert.Equal(t, 1, logs.FilterMessage("session completed").Len())
	assert.Equal(t, 0, logs.FilterMessage("agent response").Len())

	call := logs.FilterMessage("tool call").All()[0].ContextMap()
	assert.Equal(t, `{"currency_pair":"USD to EUR"}`, call["params"])
}
