package openai

import (
	"context"
	"time"

	"fxagent/internal/llm"

	"github.com/cockroachdb/errors"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNoChoices is returned when the backend answers without any completion
var ErrNoChoices = errors.New("chat completion returned no choices")

// Options configures a Client
type Options struct {
	APIKey string
	Model  string
	// BaseURL selects an OpenAI-compatible endpoint (e.g. a local Ollama
	// server at http://localhost:11434/v1). Empty means api.openai.com.
	BaseURL string
	// Provider is the name reported by Provider(); defaults to "openai"
	Provider string
	// Observer, when set, receives the outcome of every Chat call
	Observer llm.Observer
}

type Client struct {
	client   *openai.Client
	model    string
	provider string
	observer llm.Observer
}

// NewClient creates a client for OpenAI or any endpoint speaking its API
func NewClient(opts Options) *Client {
	apiKey := opts.APIKey
	if apiKey == "" {
		// local servers ignore the key but the header must be well-formed
		apiKey = "unused"
	}

	config := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	provider := opts.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Client{
		client:   openai.NewClientWithConfig(config),
		model:    opts.Model,
		provider: provider,
		observer: opts.Observer,
	}
}

func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (resp *llm.ChatResponse, err error) {
	start := time.Now()
	if c.observer != nil {
		defer func() {
			status := "success"
			if err != nil {
				status = "error"
			}
			c.observer.ObserveLLM(c.provider, status, time.Since(start))
		}()
	}

	out, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.convertMessages(req.Messages),
		Tools:       c.convertTools(req.Tools),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s chat completion", c.provider)
	}

	if len(out.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return c.convertResponse(out), nil
}

func (c *Client) Provider() string {
	return c.provider
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) convertMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		ocMsg := openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}

		if len(msg.ToolCalls) > 0 {
			ocMsg.ToolCalls = make([]openai.ToolCall, len(msg.ToolCalls))
			for j, tc := range msg.ToolCalls {
				ocMsg.ToolCalls[j] = openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				}
			}
		}

		if msg.Role == llm.RoleTool {
			ocMsg.ToolCallID = msg.ToolCallID
		}

		result[i] = ocMsg
	}
	return result
}

func (c *Client) convertTools(tools []*llm.ToolDefinition) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		}
	}
	return result
}

func (c *Client) convertResponse(resp openai.ChatCompletionResponse) *llm.ChatResponse {
	choice := resp.Choices[0]
	msg := choice.Message

	result := &llm.ChatResponse{
		Message: llm.Message{
			Role:    llm.Role(msg.Role),
			Content: msg.Content,
		},
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if len(msg.ToolCalls) > 0 {
		result.Message.ToolCalls = make([]*llm.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			result.Message.ToolCalls[i] = &llm.ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: &llm.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
		result.StopReason = llm.StopReasonToolCalls
	} else {
		result.StopReason = llm.StopReason(choice.FinishReason)
	}

	return result
}

var _ llm.Client = (*Client)(nil)
