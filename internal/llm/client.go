package llm

import (
	"context"
	"time"
)

// Client is a chat-completion backend
type Client interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Provider() string
	Model() string
}

type ChatRequest struct {
	Messages    []Message
	Tools       []*ToolDefinition
	Temperature float32
	MaxTokens   int
	// Stop sequences end generation early; free-text agents use them to
	// keep the model from inventing tool observations.
	Stop []string
}

type ChatResponse struct {
	Message    Message
	StopReason StopReason
	Usage      Usage
}

type ToolDefinition struct {
	Type     string
	Function *FunctionDef
}

type FunctionDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Observer receives the outcome of each backend call
type Observer interface {
	ObserveLLM(provider, status string, duration time.Duration)
}
