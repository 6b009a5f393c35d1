package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultTimeout is the budget for one upstream call
const DefaultTimeout = 10 * time.Second

// Observer receives the outcome of every upstream call
type Observer interface {
	ObserveUpstream(status string, duration time.Duration)
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client fetches rate snapshots from an exchangerate-api.com style service.
// It keeps no state between calls and is safe for concurrent use.
type Client struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	observer Observer
}

func New(cfg Config, observer Observer) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		client:   &http.Client{Timeout: cfg.Timeout},
		observer: observer,
	}
}

type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type,omitempty"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	TimeLastUpdate  string             `json:"time_last_update_utc"`
}

// Fetch returns the latest rates for base. The code is normalized first.
// Errors are marked ErrUpstreamUnavailable or ErrUpstreamRejected.
func (c *Client) Fetch(ctx context.Context, base string) (snap *Snapshot, err error) {
	start := time.Now()
	if c.observer != nil {
		defer func() {
			c.observer.ObserveUpstream(outcome(err), time.Since(start))
		}()
	}

	code := NormalizeCode(base)
	endpoint := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, unavailable(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, unavailable(redactKey(err, c.apiKey), "GET latest/%s", code)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(err, "read response")
	}

	var data latestResponse
	decodeErr := json.Unmarshal(body, &data)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := errors.Newf("status %d", resp.StatusCode)
		if decodeErr == nil && data.ErrorType != "" {
			err = errors.Newf("status %d (%s)", resp.StatusCode, data.ErrorType)
		}
		return nil, errors.Mark(errors.Wrapf(err, "GET latest/%s", code), ErrUpstreamUnavailable)
	}

	if decodeErr != nil {
		return nil, unavailable(decodeErr, "decode response")
	}

	if data.Result != "success" {
		return nil, &RejectedError{Result: data.Result}
	}

	return NewSnapshot(code, data.ConversionRates, data.TimeLastUpdate), nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUpstreamRejected):
		return "rejected"
	default:
		return "error"
	}
}

// redactKey keeps the API key out of url.Error messages, which embed the
// request URL and end up in tool output shown to the LLM.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		redacted := *uerr
		redacted.URL = strings.ReplaceAll(uerr.URL, key, "***")
		return &redacted
	}
	return err
}
