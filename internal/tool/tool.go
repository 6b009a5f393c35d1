package tool

import (
	"context"
	"encoding/json"
	"time"
)

// Tool defines the interface that all tools must implement
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description tells the model when and how to use the tool
	Description() string

	// Parameters returns the JSON schema for the tool's parameters
	Parameters() map[string]any

	// Execute runs the tool with structured JSON parameters
	Execute(ctx context.Context, params json.RawMessage) (*Result, error)
}

// TextTool is a Tool that can also take a single free-text input, as
// produced by the "Action Input:" line of a ReAct transcript.
type TextTool interface {
	Tool

	// ExecuteText runs the tool on raw text. Failures are reported in the
	// Result so the model can react to them.
	ExecuteText(ctx context.Context, input string) *Result
}

type Result struct {
	Success bool
	Output  string
	Error   string
}

type CallResult struct {
	ToolName  string
	CallID    string
	Params    json.RawMessage
	Result    *Result
	StartTime time.Time
	EndTime   time.Time
}

// Text returns what the model should see for this call
func (r *CallResult) Text() string {
	if r.Result == nil {
		return ""
	}
	if r.Result.Output != "" {
		return r.Result.Output
	}
	return r.Result.Error
}
