package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"HOST", "PORT", "LOG_LEVEL",
	"MODEL_PROVIDER", "MODEL_NAME", "MODEL_TEMPERATURE", "MODEL_MAX_TOKENS",
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "OLLAMA_BASE_URL",
	"EXCHANGERATE_API_KEY", "EXCHANGERATE_BASE_URL",
}

// clearEnv blanks every variable Load looks at; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EXCHANGERATE_API_KEY", "rates-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model.Name)
	assert.InDelta(t, 0.1, cfg.Model.Temperature, 1e-6)
	assert.Equal(t, 1000, cfg.Model.MaxTokens)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "https://v6.exchangerate-api.com/v6", cfg.ExchangeRate.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 3, cfg.MaxIterations())
	assert.Equal(t, "", cfg.LLMBaseURL())
}

func TestLoad_LocalProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_PROVIDER", "Ollama")
	t.Setenv("MODEL_NAME", "llama3.1")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434/")
	t.Setenv("EXCHANGERATE_API_KEY", "rates-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderLocal, cfg.Model.Provider)
	assert.Equal(t, 5, cfg.MaxIterations())
	assert.Equal(t, "http://ollama:11434/v1", cfg.LLMBaseURL())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing openai key",
			env:     map[string]string{"EXCHANGERATE_API_KEY": "k"},
			wantErr: ErrMissingOpenAIKey,
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"MODEL_PROVIDER": "mystery", "EXCHANGERATE_API_KEY": "k"},
			wantErr: ErrUnknownProvider,
		},
		{
			name:    "bad port",
			env:     map[string]string{"OPENAI_API_KEY": "sk", "EXCHANGERATE_API_KEY": "k", "PORT": "http"},
			wantErr: ErrInvalidListenPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoad_BadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("MODEL_TEMPERATURE", "warm")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODEL_TEMPERATURE")
}

func TestLoad_YAMLFileWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("FXAGENT_TEST_RATES_KEY", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "fxagent.yaml")
	content := `
server:
  port: "9090"
model:
  provider: openai
  name: gpt-4o-mini
  max_tokens: 256
openai:
  api_key: sk-file
exchange_rate:
  api_key: ${FXAGENT_TEST_RATES_KEY}
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, 256, cfg.Model.MaxTokens)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
	assert.Equal(t, "from-env", cfg.ExchangeRate.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched fields keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_NAME", "gpt-4o")

	dir := t.TempDir()
	path := filepath.Join(dir, "fxagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  name: gpt-3.5-turbo\nopenai:\n  api_key: sk\nexchange_rate:\n  api_key: k\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FXAGENT_DOTENV_PROBE", "")
	os.Unsetenv("FXAGENT_DOTENV_PROBE")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FXAGENT_DOTENV_PROBE=loaded\n"), 0o600))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("FXAGENT_DOTENV_PROBE"))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FXAGENT_EXPAND", "value")

	assert.Equal(t, "a-value-b", ExpandEnv("a-${FXAGENT_EXPAND}-b"))
	assert.Equal(t, "value", ExpandEnv("$FXAGENT_EXPAND"))
	assert.Equal(t, "", ExpandEnv("${FXAGENT_UNSET_FOR_TEST}"))
}

func TestRead_SkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXCHANGERATE_API_KEY", "rates-key")

	_, err := Load("")
	require.Error(t, err)

	cfg, err := Read("")
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateExchange())

	cfg.ExchangeRate.APIKey = ""
	assert.True(t, errors.Is(cfg.ValidateExchange(), ErrMissingExchange))
}
