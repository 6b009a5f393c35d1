package handlers

import (
	"context"

	"fxagent/internal/hook"
	"fxagent/internal/logger"
)

// LoggingHandler writes session boundaries to the agent log
type LoggingHandler struct {
	log *logger.Logger
}

func NewLoggingHandler(log *logger.Logger) *LoggingHandler {
	return &LoggingHandler{log: log}
}

func (h *LoggingHandler) Name() string {
	return "logging"
}

func (h *LoggingHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.OnAgentStart, hook.OnAgentEnd}
}

func (h *LoggingHandler) Priority() int {
	return 0
}

func (h *LoggingHandler) Handle(_ context.Context, data *hook.HookData) (*hook.Feedback, error) {
	switch data.Point {
	case hook.OnAgentStart:
		h.log.SessionStart(data.GetString("query"))
	case hook.OnAgentEnd:
		if err := data.GetString("error"); err != "" {
			h.log.Error("reasoning failed after %s: %s", data.GetDuration("duration"), err)
		}
		h.log.SessionEnd(data.GetDuration("duration"), toInt(data.Get("tool_calls")))
	}
	return hook.AllowFeedback(), nil
}

func toInt(v any) int {
	n, _ := v.(int)
	return n
}
