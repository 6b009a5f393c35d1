package currency

import (
	"context"
	"encoding/json"
	"fmt"

	"fxagent/internal/exchangerate"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

// RatesTool summarizes the rates of one base currency against the majors
type RatesTool struct {
	fetcher Fetcher
}

func NewRatesTool(fetcher Fetcher) *RatesTool {
	return &RatesTool{fetcher: fetcher}
}

func (t *RatesTool) Name() string {
	return RatesToolName
}

func (t *RatesTool) Description() string {
	return "Get current currency exchange rates. " +
		"Input should be a base currency code (e.g., 'USD', 'EUR', 'GBP'). " +
		"Returns exchange rates from the base currency to all other currencies."
}

func (t *RatesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"base_currency": map[string]any{
				"type":        "string",
				"description": "ISO 4217 code of the base currency, defaults to USD",
			},
		},
		"required": []string{"base_currency"},
	}
}

func (t *RatesTool) Execute(ctx context.Context, params json.RawMessage) (*tool.Result, error) {
	base, err := decodeParam(params, "base_currency")
	if err != nil {
		return &tool.Result{
			Success: false,
			Error:   fmt.Sprintf("invalid parameters: %v", err),
		}, nil
	}
	return execText(ctx, t.lookup, base), nil
}

func (t *RatesTool) ExecuteText(ctx context.Context, input string) *tool.Result {
	return execText(ctx, t.lookup, input)
}

// Run returns the summary text, or an "Error..." text on failure
func (t *RatesTool) Run(ctx context.Context, input string) string {
	out, _ := t.lookup(ctx, input)
	return out
}

// RunAsync delivers the result of Run on a channel that is closed afterwards
func (t *RatesTool) RunAsync(ctx context.Context, input string) <-chan string {
	return runAsync(ctx, t.lookup, input)
}

func (t *RatesTool) lookup(ctx context.Context, input string) (string, bool) {
	base := exchangerate.NormalizeCode(input)
	if base == "" {
		base = DefaultBase
	}

	snap, err := t.fetcher.Fetch(ctx, base)
	if err != nil {
		if result, ok := rejectedResult(err); ok {
			return fmt.Sprintf("Error: API returned result '%s'. Please check the currency code.", result), false
		}
		if errors.Is(err, exchangerate.ErrUpstreamUnavailable) {
			return fetchErrorText(err), false
		}
		return "Error processing currency data: " + err.Error(), false
	}

	return exchangerate.FormatSummary(snap), true
}
