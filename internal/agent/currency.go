package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fxagent/internal/hook"
	"fxagent/internal/logger"
)

// QueryResult is the outcome of one query. Error is nil on success.
type QueryResult struct {
	Success  bool    `json:"success"`
	Response string  `json:"response"`
	Error    *string `json:"error"`
}

func failedResult(msg string) *QueryResult {
	return &QueryResult{Success: false, Response: "", Error: &msg}
}

// CurrencyAgent is the entry point for currency questions. It never
// returns an error or panics: every failure becomes a QueryResult.
type CurrencyAgent struct {
	agent       Agent
	hookManager *hook.Manager
	log         *logger.Logger
}

func NewCurrencyAgent(agent Agent, log *logger.Logger) *CurrencyAgent {
	if log == nil {
		log = logger.Nop()
	}
	return &CurrencyAgent{agent: agent, log: log}
}

// SetHookManager sets the hook manager notified at session start and end
func (c *CurrencyAgent) SetHookManager(manager *hook.Manager) {
	c.hookManager = manager
}

// Provider reports the backend the underlying agent was built for
func (c *CurrencyAgent) Provider() string {
	return string(c.agent.Provider())
}

// ProcessQuery answers q in the background. The channel yields exactly one
// result and is then closed.
func (c *CurrencyAgent) ProcessQuery(ctx context.Context, q string) <-chan *QueryResult {
	ch := make(chan *QueryResult, 1)
	go func() {
		defer close(ch)
		ch <- c.ProcessQuerySync(ctx, q)
	}()
	return ch
}

// ProcessQuerySync answers q and blocks until the reasoning loop is done
func (c *CurrencyAgent) ProcessQuerySync(ctx context.Context, q string) (result *QueryResult) {
	start := time.Now()
	toolCalls := 0

	defer func() {
		if r := recover(); r != nil {
			loggerFor(ctx, c.log).Error("panic in reasoning loop: %v", r)
			result = failedResult(fmt.Sprintf("panic: %v", r))
		}

		end := hook.NewHookData(hook.OnAgentEnd, "").
			Set("provider", c.Provider()).
			Set("success", result.Success).
			Set("duration", time.Since(start)).
			Set("tool_calls", toolCalls)
		if result.Error != nil {
			end.Set("error", *result.Error)
		}
		c.trigger(ctx, end)
	}()

	c.trigger(ctx, hook.NewHookData(hook.OnAgentStart, "").
		Set("query", q).
		Set("provider", c.Provider()))

	if strings.TrimSpace(q) == "" {
		return failedResult(ErrEmptyQuery.Error())
	}

	out, err := c.agent.Run(ctx, q)
	if err != nil {
		return failedResult(err.Error())
	}
	toolCalls = len(out.ToolCalls)

	return &QueryResult{Success: true, Response: out.Result}
}

func (c *CurrencyAgent) trigger(ctx context.Context, data *hook.HookData) {
	if c.hookManager == nil {
		return
	}
	if _, err := c.hookManager.Trigger(ctx, data); err != nil {
		c.log.Warn("hook %s failed: %v", data.Point, err)
	}
}
