package agent

import (
	"context"
	"regexp"
	"strings"

	"fxagent/internal/config"
	"fxagent/internal/llm"
	"fxagent/internal/logger"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

// FinalAnswerMarker introduces the answer in a ReAct transcript
const FinalAnswerMarker = "Final Answer:"

// Observations left in the scratchpad when the model output cannot be used
const (
	invalidResponseObservation = "Invalid or incomplete response"
	missingActionObservation   = "Invalid Format: Missing 'Action:' after 'Thought:'"
	missingInputObservation    = "Invalid Format: Missing 'Action Input:' after 'Action:'"
)

// exceptionTool names the pseudo-step recorded for unparseable output
const exceptionTool = "_Exception"

var (
	actionInputRe = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionRe      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
)

// reactStopSequences keep the model from writing its own observations
var reactStopSequences = []string{"\nObservation"}

// Decision is one parsed ReAct model turn. Exactly one of Final, Action or
// Malformed is set.
type Decision struct {
	Final       string
	Action      string
	ActionInput string
	// Malformed holds the observation returned to the model when the
	// output is unusable
	Malformed string
}

// ParseReAct interprets a model turn written in the Thought/Action/Action
// Input/Final Answer format.
func ParseReAct(text string) Decision {
	includesAnswer := strings.Contains(text, FinalAnswerMarker)

	if m := actionInputRe.FindStringSubmatch(text); m != nil {
		if includesAnswer {
			return Decision{Malformed: invalidResponseObservation}
		}
		action := strings.TrimSpace(m[1])
		if action == "" {
			return Decision{Malformed: missingActionObservation}
		}
		input := strings.Trim(strings.Trim(m[2], " "), `"`)
		return Decision{Action: action, ActionInput: input}
	}

	if includesAnswer {
		parts := strings.Split(text, FinalAnswerMarker)
		return Decision{Final: strings.TrimSpace(parts[len(parts)-1])}
	}

	if !actionRe.MatchString(text) {
		return Decision{Malformed: missingActionObservation}
	}
	return Decision{Malformed: missingInputObservation}
}

// ReActAgent drives a backend without native tool calling through a single
// free-text prompt. Malformed turns are fed back as observations and still
// count against the iteration budget.
type ReActAgent struct {
	config    *Config
	llmClient llm.Client
	executor  *tool.Executor
	log       *logger.Logger
}

func NewReActAgent(cfg *Config, client llm.Client, executor *tool.Executor, log *logger.Logger) (*ReActAgent, error) {
	if len(executor.Registry().Names()) == 0 {
		return nil, errors.New("react agent needs at least one tool")
	}
	if log == nil {
		log = logger.Nop()
	}

	return &ReActAgent{
		config:    cfg,
		llmClient: client,
		executor:  executor,
		log:       log,
	}, nil
}

func (a *ReActAgent) Provider() config.Provider {
	return config.ProviderLocal
}

func (a *ReActAgent) Run(ctx context.Context, input string) (*Output, error) {
	maxIterations := a.config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultIterations(config.ProviderLocal)
	}

	execCtx := NewExecutionContext(loggerFor(ctx, a.log), maxIterations)
	execCtx.Transition(StateReasoning)
	defer execCtx.Transition(StateDone)

	prompt, err := renderReActPrompt(a.executor.Registry(), input)
	if err != nil {
		return nil, reasoningFailure(err, "render prompt")
	}

	output := &Output{}

	for i := 0; i < maxIterations; i++ {
		execCtx.CurrentTurn = i + 1
		execCtx.LogProgress()

		resp, err := a.llmClient.Chat(ctx, &llm.ChatRequest{
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: prompt + scratchpad(output.Steps)},
			},
			Temperature: a.config.Temperature,
			MaxTokens:   a.config.MaxTokens,
			Stop:        reactStopSequences,
		})
		if err != nil {
			execCtx.Logger.Error("LLM call failed: %v", err)
			return nil, reasoningFailure(err, "iteration %d", i+1)
		}

		text := resp.Message.Content
		execCtx.LogResponse(text)

		decision := ParseReAct(text)
		switch {
		case decision.Malformed != "":
			execCtx.Logger.Warn("could not parse model output: %s", decision.Malformed)
			output.Steps = append(output.Steps, Step{
				Tool:        exceptionTool,
				Input:       decision.Malformed,
				Log:         text,
				Observation: decision.Malformed,
			})

		case decision.Action != "":
			execCtx.LogToolCall(decision.Action, decision.ActionInput)

			result := a.executor.ExecuteText(ctx, decision.Action, decision.ActionInput)
			output.ToolCalls = append(output.ToolCalls, result)
			execCtx.LogToolResult(result.ToolName, result.Result.Success, result.Text(), result.EndTime.Sub(result.StartTime))

			output.Steps = append(output.Steps, Step{
				Tool:        decision.Action,
				Input:       decision.ActionInput,
				Log:         text,
				Observation: result.Text(),
			})

		default:
			output.Result = decision.Final
			return output, nil
		}
	}

	execCtx.Logger.Error("Max iterations exceeded")
	return nil, maxIterationsExceeded(maxIterations)
}
