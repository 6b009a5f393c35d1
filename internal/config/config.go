package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Provider identifies the LLM backend the agent talks to
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderLocal  Provider = "local"
)

var (
	ErrUnknownProvider   = errors.New("unknown model provider")
	ErrMissingOpenAIKey  = errors.New("OPENAI_API_KEY is required for the openai provider")
	ErrMissingExchange   = errors.New("exchange rate API key and base URL are required")
	ErrInvalidListenPort = errors.New("invalid listen port")
)

// Config represents the complete fxagent configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Model        ModelConfig        `yaml:"model"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Ollama       OllamaConfig       `yaml:"ollama"`
	ExchangeRate ExchangeRateConfig `yaml:"exchange_rate"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelConfig selects the LLM backend and its sampling settings
type ModelConfig struct {
	Provider    Provider `yaml:"provider"` // "openai" or "local" ("ollama" accepted)
	Name        string   `yaml:"name"`
	Temperature float32  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // empty means the public OpenAI endpoint
}

type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ExchangeRateConfig points at the upstream rates API
type ExchangeRateConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Provider:    ProviderOpenAI,
			Name:        "gpt-3.5-turbo",
			Temperature: 0.1,
			MaxTokens:   1000,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
		},
		ExchangeRate: ExchangeRateConfig{
			BaseURL: "https://v6.exchangerate-api.com/v6",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML config file at path, applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// Read is Load without validation, for commands that use only part of the config
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}

		if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config YAML")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.Model.Provider = normalizeProvider(cfg.Model.Provider)
	return cfg, nil
}

// Locate returns the first existing default config file, or "" when there is none.
// Checks: ./fxagent.yaml, ./configs/fxagent.yaml, ~/.config/fxagent/fxagent.yaml, /etc/fxagent/fxagent.yaml
func Locate() string {
	locations := []string{
		"./fxagent.yaml",
		"./configs/fxagent.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "fxagent", "fxagent.yaml"))
	}

	locations = append(locations, "/etc/fxagent/fxagent.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks config correctness
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return ErrMissingOpenAIKey
		}
	case ProviderLocal:
		if c.Ollama.BaseURL == "" {
			return errors.New("ollama base URL is required for the local provider")
		}
	default:
		return errors.Wrapf(ErrUnknownProvider, "%q", c.Model.Provider)
	}

	if err := c.ValidateExchange(); err != nil {
		return err
	}

	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		return errors.Wrapf(ErrInvalidListenPort, "%q", c.Server.Port)
	}

	return nil
}

// ValidateExchange checks only the upstream rates settings
func (c *Config) ValidateExchange() error {
	if c.ExchangeRate.APIKey == "" || c.ExchangeRate.BaseURL == "" {
		return ErrMissingExchange
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// MaxIterations is the reasoning budget for the configured provider
func (c *Config) MaxIterations() int {
	if c.Model.Provider == ProviderLocal {
		return 5
	}
	return 3
}

// LLMBaseURL returns the OpenAI-compatible endpoint for the configured provider
func (c *Config) LLMBaseURL() string {
	if c.Model.Provider == ProviderLocal {
		return strings.TrimRight(c.Ollama.BaseURL, "/") + "/v1"
	}
	return c.OpenAI.BaseURL
}

func normalizeProvider(p Provider) Provider {
	switch Provider(strings.ToLower(strings.TrimSpace(string(p)))) {
	case ProviderLocal, "ollama":
		return ProviderLocal
	case ProviderOpenAI:
		return ProviderOpenAI
	default:
		return p
	}
}
