package currency

import (
	"context"
	"encoding/json"
	"fmt"

	"fxagent/internal/exchangerate"
	"fxagent/internal/tool"

	"github.com/cockroachdb/errors"
)

// PairTool reports the rate between two currencies
type PairTool struct {
	fetcher Fetcher
}

func NewPairTool(fetcher Fetcher) *PairTool {
	return &PairTool{fetcher: fetcher}
}

func (t *PairTool) Name() string {
	return PairToolName
}

func (t *PairTool) Description() string {
	return "Get conversion rate between two specific currencies. " +
		"Input should be in format 'FROM_CURRENCY to TO_CURRENCY' " +
		"(e.g., 'USD to EUR', 'GBP to JPY'). Returns the conversion rate."
}

func (t *PairTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"currency_pair": map[string]any{
				"type":        "string",
				"description": "Currency pair such as 'USD to EUR'",
			},
		},
		"required": []string{"currency_pair"},
	}
}

func (t *PairTool) Execute(ctx context.Context, params json.RawMessage) (*tool.Result, error) {
	pair, err := decodeParam(params, "currency_pair")
	if err != nil {
		return &tool.Result{
			Success: false,
			Error:   fmt.Sprintf("invalid parameters: %v", err),
		}, nil
	}
	return execText(ctx, t.lookup, pair), nil
}

func (t *PairTool) ExecuteText(ctx context.Context, input string) *tool.Result {
	return execText(ctx, t.lookup, input)
}

// Run returns the pair rate text, or an "Error..." text on failure
func (t *PairTool) Run(ctx context.Context, input string) string {
	out, _ := t.lookup(ctx, input)
	return out
}

// RunAsync delivers the result of Run on a channel that is closed afterwards
func (t *PairTool) RunAsync(ctx context.Context, input string) <-chan string {
	return runAsync(ctx, t.lookup, input)
}

func (t *PairTool) lookup(ctx context.Context, input string) (string, bool) {
	from, to, err := exchangerate.ParsePair(input)
	if err != nil {
		return "Error: " + err.Error(), false
	}

	snap, err := t.fetcher.Fetch(ctx, from)
	if err != nil {
		if result, ok := rejectedResult(err); ok {
			return fmt.Sprintf("Error: API returned result '%s'", result), false
		}
		if errors.Is(err, exchangerate.ErrUpstreamUnavailable) {
			return fetchErrorText(err), false
		}
		return "Error processing request: " + err.Error(), false
	}

	out, err := exchangerate.FormatPair(snap, to)
	if err != nil {
		return "Error: " + err.Error(), false
	}
	return out, true
}
