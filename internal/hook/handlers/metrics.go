package handlers

import (
	"context"
	"time"

	"fxagent/internal/hook"
)

// Recorder is the metrics sink the handler reports to
type Recorder interface {
	RecordToolCall(tool, status string, duration time.Duration)
	RecordQuery(provider, status string, duration time.Duration)
}

// MetricsHandler records tool calls and reasoning sessions
type MetricsHandler struct {
	recorder Recorder
}

func NewMetricsHandler(recorder Recorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

func (h *MetricsHandler) Name() string {
	return "metrics"
}

func (h *MetricsHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.AfterToolExecution, hook.OnAgentEnd}
}

// Priority is low so metrics observe whatever earlier handlers decided
func (h *MetricsHandler) Priority() int {
	return -100
}

func (h *MetricsHandler) Handle(_ context.Context, data *hook.HookData) (*hook.Feedback, error) {
	status := "success"
	if !data.GetBool("success") {
		status = "error"
	}

	switch data.Point {
	case hook.AfterToolExecution:
		h.recorder.RecordToolCall(data.ToolName, status, data.GetDuration("duration"))
	case hook.OnAgentEnd:
		h.recorder.RecordQuery(data.GetString("provider"), status, data.GetDuration("duration"))
	}

	return hook.AllowFeedback(), nil
}
