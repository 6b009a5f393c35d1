package agent

import (
	"context"
	"time"

	"fxagent/internal/config"
	"fxagent/internal/llm"
	"fxagent/internal/logger"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

// ToolsAgent drives a backend with native tool calling. Each turn is one
// chat completion; tool calls are executed and fed back until the model
// answers in plain text.
type ToolsAgent struct {
	config       *Config
	systemPrompt string
	llmClient    llm.Client
	executor     *tool.Executor
	log          *logger.Logger
}

func NewToolsAgent(cfg *Config, client llm.Client, executor *tool.Executor, log *logger.Logger) (*ToolsAgent, error) {
	systemPrompt, err := renderSystemPrompt(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "render system prompt")
	}
	if log == nil {
		log = logger.Nop()
	}

	return &ToolsAgent{
		config:       cfg,
		systemPrompt: systemPrompt,
		llmClient:    client,
		executor:     executor,
		log:          log,
	}, nil
}

func (a *ToolsAgent) Provider() config.Provider {
	return config.ProviderOpenAI
}

func (a *ToolsAgent) Run(ctx context.Context, input string) (*Output, error) {
	maxTurns := a.config.MaxIterations
	if maxTurns <= 0 {
		maxTurns = defaultIterations(config.ProviderOpenAI)
	}

	execCtx := NewExecutionContext(loggerFor(ctx, a.log), maxTurns)
	execCtx.Transition(StateReasoning)
	defer execCtx.Transition(StateDone)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.systemPrompt},
		{Role: llm.RoleUser, Content: input, Timestamp: time.Now()},
		{Role: llm.RoleAssistant, Content: AssistantPreamble},
	}

	tools := a.executor.Registry().GetToolDefinitions()
	output := &Output{}

	for turn := 0; turn < maxTurns; turn++ {
		execCtx.CurrentTurn = turn + 1
		execCtx.LogProgress()

		resp, err := a.llmClient.Chat(ctx, &llm.ChatRequest{
			Messages:    messages,
			Tools:       tools,
			Temperature: a.config.Temperature,
			MaxTokens:   a.config.MaxTokens,
		})
		if err != nil {
			execCtx.Logger.Error("LLM call failed: %v", err)
			return nil, reasoningFailure(err, "turn %d", turn+1)
		}

		messages = append(messages, resp.Message)

		if resp.Message.Content != "" {
			execCtx.LogResponse(resp.Message.Content)
		}

		if len(resp.Message.ToolCalls) == 0 {
			output.Result = resp.Message.Content
			if resp.StopReason == llm.StopReasonLength {
				output.Result += "\n[Response truncated due to length limit]"
			}
			return output, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			execCtx.LogToolCall(tc.Function.Name, tc.Function.Arguments)
		}

		results := a.executor.Execute(ctx, resp.Message.ToolCalls)
		output.ToolCalls = append(output.ToolCalls, results...)

		for _, tr := range results {
			execCtx.LogToolResult(tr.ToolName, tr.Result.Success, tr.Text(), tr.EndTime.Sub(tr.StartTime))

			output.Steps = append(output.Steps, Step{
				Tool:        tr.ToolName,
				Input:       string(tr.Params),
				Log:         resp.Message.Content,
				Observation: tr.Text(),
			})

			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: tr.CallID,
				Content:    tr.Text(),
				Name:       tr.ToolName,
				Timestamp:  tr.EndTime,
			})
		}
	}

	execCtx.Logger.Error("Max turns exceeded")
	return nil, maxIterationsExceeded(maxTurns)
}
