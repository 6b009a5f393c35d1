package agent

import (
	"context"
	"fmt"
	"time"

	"fxagent/internal/logger"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// LoggerContextKey is the context key for storing a request-scoped logger
const LoggerContextKey ContextKey = "logger"

// State is the lifecycle of one reasoning session
type State string

const (
	StateIdle      State = "idle"
	StateReasoning State = "reasoning"
	StateDone      State = "done"
)

// ExecutionContext tracks the execution state of an agent and provides logging utilities
type ExecutionContext struct {
	Logger        *logger.Logger
	State         State
	StartTime     time.Time
	CurrentTurn   int
	TotalTurns    int
	ToolCallCount int
}

// NewExecutionContext creates an idle execution context
func NewExecutionContext(log *logger.Logger, maxTurns int) *ExecutionContext {
	return &ExecutionContext{
		Logger:     log,
		State:      StateIdle,
		StartTime:  time.Now(),
		TotalTurns: maxTurns,
	}
}

// Transition moves the session to the next state. Done is terminal.
func (ctx *ExecutionContext) Transition(to State) {
	if ctx.State == StateDone || ctx.State == to {
		return
	}
	ctx.Logger.AgentState(string(ctx.State), string(to))
	ctx.State = to
}

// LogToolCall logs a tool call with its parameters
func (ctx *ExecutionContext) LogToolCall(toolName, params string) {
	ctx.ToolCallCount++
	ctx.Logger.ToolCall(toolName, params)
}

// LogToolResult logs a tool execution result
func (ctx *ExecutionContext) LogToolResult(toolName string, success bool, output string, duration time.Duration) {
	ctx.Logger.ToolResult(toolName, success, output, duration)
}

// LogResponse logs the agent's response
func (ctx *ExecutionContext) LogResponse(content string) {
	ctx.Logger.AgentResponse(content)
}

// LogProgress logs the current progress (turn X of Y)
func (ctx *ExecutionContext) LogProgress() {
	ctx.Logger.Progress(ctx.CurrentTurn, ctx.TotalTurns,
		fmt.Sprintf("Turn %d/%d", ctx.CurrentTurn, ctx.TotalTurns))
}

// GetLoggerFromContext retrieves the logger stored in context
func GetLoggerFromContext(ctx context.Context) *logger.Logger {
	if log, ok := ctx.Value(LoggerContextKey).(*logger.Logger); ok {
		return log
	}
	return nil
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, log *logger.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, log)
}

// loggerFor prefers a request-scoped logger over the agent's own
func loggerFor(ctx context.Context, fallback *logger.Logger) *logger.Logger {
	if log := GetLoggerFromContext(ctx); log != nil {
		return log
	}
	return fallback
}
