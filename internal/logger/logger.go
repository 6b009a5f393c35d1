package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxOutputLength caps how much tool output is copied into a log entry
const maxOutputLength = 500

// Logger provides structured logging for the agent framework.
// It wraps a zap logger and keeps an agent-oriented event vocabulary.
type Logger struct {
	zl    *zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a Logger for the given level name ("debug", "info", "warn", "error").
// Debug selects zap's development config; every other level logs JSON.
func New(level string) (*Logger, error) {
	lvl := ParseLevel(level)

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return FromZap(zl), nil
}

// FromZap wraps an existing zap logger
func FromZap(zl *zap.Logger) *Logger {
	return &Logger{zl: zl, sugar: zl.Sugar()}
}

// Nop returns a Logger that discards everything
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Zap exposes the underlying logger for components that log with fields
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Named returns a child logger scoped to a component
func (l *Logger) Named(name string) *Logger {
	return FromZap(l.zl.Named(name))
}

// With returns a child logger carrying extra fields
func (l *Logger) With(fields ...zap.Field) *Logger {
	return FromZap(l.zl.With(fields...))
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// Debug logs debug information
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Info logs general information
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warn logs recoverable problems
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// AgentResponse logs the agent's response
func (l *Logger) AgentResponse(content string) {
	l.zl.Debug("agent response", zap.String("content", truncate(content)))
}

// AgentState logs a reasoning session state transition
func (l *Logger) AgentState(from, to string) {
	l.zl.Debug("agent state", zap.String("from", from), zap.String("to", to))
}

// ToolCall logs a tool call with its parameters
func (l *Logger) ToolCall(toolName string, params string) {
	l.zl.Info("tool call",
		zap.String("tool", toolName),
		zap.String("params", strings.TrimSpace(params)),
	)
}

// ToolResult logs a tool execution result
func (l *Logger) ToolResult(toolName string, success bool, output string, duration time.Duration) {
	l.zl.Info("tool result",
		zap.String("tool", toolName),
		zap.Bool("success", success),
		zap.Duration("duration", duration),
		zap.String("output", truncate(output)),
	)
}

// SessionStart logs the beginning of an agent session
func (l *Logger) SessionStart(task string) {
	l.zl.Info("session started", zap.String("task", truncate(task)))
}

// SessionEnd logs the completion of an agent session with statistics
func (l *Logger) SessionEnd(duration time.Duration, toolCallCount int) {
	l.zl.Info("session completed",
		zap.Duration("duration", duration.Round(time.Millisecond)),
		zap.Int("tool_calls", toolCallCount),
	)
}

// Progress logs the current turn out of the budget
func (l *Logger) Progress(current, total int, message string) {
	l.zl.Debug("progress",
		zap.Int("turn", current),
		zap.Int("max_turns", total),
		zap.String("message", message),
	)
}

func truncate(s string) string {
	if len(s) <= maxOutputLength {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:maxOutputLength], len(s))
}
