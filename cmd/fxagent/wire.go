package main

import (
	"fxagent/internal/agent"
	"fxagent/internal/config"
	"fxagent/internal/exchangerate"
	"fxagent/internal/hook"
	"fxagent/internal/hook/handlers"
	"fxagent/internal/llm/openai"
	"fxagent/internal/logger"
	"fxagent/internal/metrics"
	"fxagent/internal/tool"
	"fxagent/internal/tool/currency"

	"github.com/cockroachdb/errors"
)

// components holds everything built from one configuration
type components struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *metrics.Metrics
	hooks    *hook.Manager
	rates    *exchangerate.Client
	executor *tool.Executor
}

func buildComponents(cfg *config.Config, log *logger.Logger) (*components, error) {
	m := metrics.New()

	hooks := hook.NewManager()
	hooks.Register(handlers.NewMetricsHandler(m))
	hooks.Register(handlers.NewLoggingHandler(log.Named("session")))

	rates := exchangerate.New(exchangerate.Config{
		APIKey:  cfg.ExchangeRate.APIKey,
		BaseURL: cfg.ExchangeRate.BaseURL,
	}, m)

	registry := tool.NewRegistry()
	if err := currency.Register(registry, rates); err != nil {
		return nil, errors.Wrap(err, "register currency tools")
	}

	executor := tool.NewExecutor(registry)
	executor.SetHookManager(hooks)

	return &components{
		cfg:      cfg,
		log:      log,
		metrics:  m,
		hooks:    hooks,
		rates:    rates,
		executor: executor,
	}, nil
}

// currencyAgent builds the LLM client and the agent variant for the configured provider
func (c *components) currencyAgent() (*agent.CurrencyAgent, error) {
	client := openai.NewClient(openai.Options{
		APIKey:   c.cfg.OpenAI.APIKey,
		Model:    c.cfg.Model.Name,
		BaseURL:  c.cfg.LLMBaseURL(),
		Provider: string(c.cfg.Model.Provider),
		Observer: c.metrics,
	})

	inner, err := agent.New(agent.ConfigFrom(c.cfg), client, c.executor, c.log.Named("agent"))
	if err != nil {
		return nil, errors.Wrap(err, "create agent")
	}

	c.log.Info("Initialized %s agent (model: %s, max iterations: %d)",
		c.cfg.Model.Provider, c.cfg.Model.Name, c.cfg.MaxIterations())

	ca := agent.NewCurrencyAgent(inner, c.log)
	ca.SetHookManager(c.hooks)
	return ca, nil
}
