package config

import (
	"os"
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// envVarPattern matches ${VAR} and $VAR patterns
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}|\$([A-Za-z0-9_]+)`)

// ExpandEnv replaces ${VAR} and $VAR with environment variables
// Example: "api_key: ${OPENAI_API_KEY}" → "api_key: sk-abc123..."
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := ""
		if match[1] == '{' {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		return os.Getenv(varName)
	})
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() error {
	setString("HOST", &c.Server.Host)
	setString("PORT", &c.Server.Port)
	setString("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("MODEL_PROVIDER"); ok {
		c.Model.Provider = Provider(v)
	}
	setString("MODEL_NAME", &c.Model.Name)

	if v, ok := lookup("MODEL_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return errors.Wrapf(err, "MODEL_TEMPERATURE=%q", v)
		}
		c.Model.Temperature = float32(f)
	}

	if v, ok := lookup("MODEL_MAX_TOKENS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "MODEL_MAX_TOKENS=%q", v)
		}
		c.Model.MaxTokens = n
	}

	setString("OPENAI_API_KEY", &c.OpenAI.APIKey)
	setString("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	setString("OLLAMA_BASE_URL", &c.Ollama.BaseURL)
	setString("EXCHANGERATE_API_KEY", &c.ExchangeRate.APIKey)
	setString("EXCHANGERATE_BASE_URL", &c.ExchangeRate.BaseURL)

	return nil
}

func lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	return "", false
}

func setString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
