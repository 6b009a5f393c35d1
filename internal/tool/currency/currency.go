// Package currency provides the exchange-rate tools offered to the agent.
package currency

import (
	"context"
	"encoding/json"
	"fmt"

	"fxagent/internal/exchangerate"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

// DefaultBase is used when the summary tool gets no currency code
const DefaultBase = "USD"

// Tool names as seen by the model
const (
	RatesToolName = "get_currency_rates"
	PairToolName  = "get_specific_currency_rate"
)

// Fetcher retrieves a rate snapshot for a base currency
type Fetcher interface {
	Fetch(ctx context.Context, base string) (*exchangerate.Snapshot, error)
}

// Register adds both currency tools to the registry
func Register(registry *tool.Registry, fetcher Fetcher) error {
	if err := registry.Register(NewRatesTool(fetcher)); err != nil {
		return err
	}
	return registry.Register(NewPairTool(fetcher))
}

// textRunner is the part each tool implements; the rest is shared
type textRunner func(ctx context.Context, input string) (string, bool)

func execText(ctx context.Context, run textRunner, input string) *tool.Result {
	out, ok := run(ctx, input)
	if !ok {
		return &tool.Result{Success: false, Error: out}
	}
	return &tool.Result{Success: true, Output: out}
}

func runAsync(ctx context.Context, run textRunner, input string) <-chan string {
	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		out, _ := run(ctx, input)
		ch <- out
	}()
	return ch
}

func decodeParam(params json.RawMessage, key string) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	var p map[string]any
	if err := json.Unmarshal(params, &p); err != nil {
		return "", err
	}
	switch v := p[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%s must be a string", key)
	}
}

func fetchErrorText(err error) string {
	return "Error fetching currency rates: " + err.Error()
}

func rejectedResult(err error) (string, bool) {
	var rejected *exchangerate.RejectedError
	if errors.As(err, &rejected) {
		return rejected.Result, true
	}
	return "", false
}
