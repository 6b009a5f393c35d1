package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fxagent/internal/hook"
	"fxagent/internal/llm"
)

// EmptyOutputPlaceholder is returned when a tool produces no output.
// This ensures LLM APIs (which require non-empty content) don't fail with 400 errors.
const EmptyOutputPlaceholder = "(Tool executed successfully with no output)"

// Executor runs tool calls one at a time, in the order the model asked for them
type Executor struct {
	registry    *Registry
	hookManager *hook.Manager
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// SetHookManager sets the hook manager for tool execution hooks
func (e *Executor) SetHookManager(manager *hook.Manager) {
	e.hookManager = manager
}

// Registry returns the tools this executor dispatches to
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute runs native tool calls sequentially. Tool failures are reported
// in the CallResult, never as an error.
func (e *Executor) Execute(ctx context.Context, toolCalls []*llm.ToolCall) []*CallResult {
	results := make([]*CallResult, len(toolCalls))

	for i, tc := range toolCalls {
		results[i] = e.run(ctx, tc.ID, tc.Function.Name, json.RawMessage(tc.Function.Arguments), "", false)
	}

	return results
}

// ExecuteText runs a tool with a free-text input, as written on an
// "Action Input:" line.
func (e *Executor) ExecuteText(ctx context.Context, name, input string) *CallResult {
	return e.run(ctx, "", name, nil, input, true)
}

func (e *Executor) run(ctx context.Context, callID, name string, params json.RawMessage, text string, isText bool) *CallResult {
	startTime := time.Now()
	failed := func(msg string) *CallResult {
		return &CallResult{
			ToolName:  name,
			CallID:    callID,
			Params:    params,
			Result:    &Result{Success: false, Error: msg},
			StartTime: startTime,
			EndTime:   time.Now(),
		}
	}

	t, err := e.registry.Get(name)
	if err != nil {
		return failed(fmt.Sprintf("%v. Available tools: %v", err, e.registry.Names()))
	}

	logged := string(params)
	if isText {
		logged = text
	}

	if e.hookManager != nil {
		hookData := hook.NewHookData(hook.BeforeToolExecution, name).
			Set("params", logged)

		feedback, err := e.hookManager.Trigger(ctx, hookData)
		if err != nil {
			return failed(fmt.Sprintf("hook error: %v", err))
		}
		if !feedback.Allow {
			return failed(fmt.Sprintf("Tool execution was denied: %s", feedback.Message))
		}
	}

	var result *Result
	if isText {
		result = e.runText(ctx, t, text)
	} else {
		result, err = t.Execute(ctx, params)
		if err != nil {
			result = &Result{Success: false, Error: err.Error()}
		}
	}
	if result == nil {
		result = &Result{Success: false, Error: fmt.Sprintf("tool %s returned no result", name)}
	}

	if result.Success && result.Output == "" {
		result.Output = EmptyOutputPlaceholder
	}

	if e.hookManager != nil {
		hookData := hook.NewHookData(hook.AfterToolExecution, name).
			Set("params", logged).
			Set("success", result.Success).
			Set("duration", time.Since(startTime))

		// After hooks don't block, just trigger
		_, _ = e.hookManager.Trigger(ctx, hookData)
	}

	return &CallResult{
		ToolName:  name,
		CallID:    callID,
		Params:    params,
		Result:    result,
		StartTime: startTime,
		EndTime:   time.Now(),
	}
}

// runText feeds free text to a tool. Tools that do not take text get it as
// the value of their single required parameter.
func (e *Executor) runText(ctx context.Context, t Tool, text string) *Result {
	if tt, ok := t.(TextTool); ok {
		return tt.ExecuteText(ctx, text)
	}

	params, err := ParamsFromText(t, text)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}

	result, err := t.Execute(ctx, params)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}
	return result
}

// ParamsFromText builds a JSON argument object for a tool with exactly one
// required parameter. Inputs that already are JSON objects pass through.
func ParamsFromText(t Tool, text string) (json.RawMessage, error) {
	if raw := json.RawMessage(text); json.Valid(raw) && len(text) > 0 && text[0] == '{' {
		return raw, nil
	}

	required, _ := t.Parameters()["required"].([]string)
	if len(required) != 1 {
		return nil, fmt.Errorf("tool %s needs structured input", t.Name())
	}

	return json.Marshal(map[string]string{required[0]: text})
}
