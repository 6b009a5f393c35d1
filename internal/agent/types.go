package agent

import (
	"fxagent/internal/config"
	"fxagent/internal/llm"
	"fxagent/internal/logger"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

// New builds the agent variant for cfg.Provider. The choice of prompt,
// tool-calling style and iteration bound is fixed here.
func New(cfg *Config, client llm.Client, executor *tool.Executor, log *logger.Logger) (Agent, error) {
	if log == nil {
		log = logger.Nop()
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewToolsAgent(cfg, client, executor, log)
	case config.ProviderLocal:
		return NewReActAgent(cfg, client, executor, log)
	default:
		return nil, errors.Wrapf(config.ErrUnknownProvider, "%q", cfg.Provider)
	}
}

// defaultIterations applies when a Config leaves MaxIterations unset
func defaultIterations(p config.Provider) int {
	if p == config.ProviderLocal {
		return 5
	}
	return 3
}
