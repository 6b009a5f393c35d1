package agent

import (
	"context"

	"fxagent/internal/config"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

var (
	// ErrReasoningFailure marks every error returned by Agent.Run: backend
	// failures, unparseable output and an exhausted iteration budget.
	ErrReasoningFailure = errors.New("reasoning failure")
	// ErrMaxIterations is wrapped when the loop runs out of iterations
	ErrMaxIterations = errors.New("agent stopped due to iteration limit")
	// ErrEmptyQuery is returned for blank input
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// Agent answers one query with a bounded reasoning loop
type Agent interface {
	Provider() config.Provider
	Run(ctx context.Context, input string) (*Output, error)
}

// Step is one think/act/observe round
type Step struct {
	Tool        string
	Input       string
	Log         string // raw model text that produced the action
	Observation string
}

type Output struct {
	Result    string
	Steps     []Step
	ToolCalls []*tool.CallResult
}

// Config is derived once from the service configuration and never mutated
type Config struct {
	Provider      config.Provider
	Model         string
	Temperature   float32
	MaxTokens     int
	MaxIterations int
}

// ConfigFrom picks the model settings and iteration bound for the configured provider
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Provider:      cfg.Model.Provider,
		Model:         cfg.Model.Name,
		Temperature:   cfg.Model.Temperature,
		MaxTokens:     cfg.Model.MaxTokens,
		MaxIterations: cfg.MaxIterations(),
	}
}

func reasoningFailure(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrReasoningFailure)
}

func maxIterationsExceeded(n int) error {
	return errors.Mark(errors.Wrapf(ErrMaxIterations, "%d iterations", n), ErrReasoningFailure)
}
