package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesDoNotCollide(t *testing.T) {
	a := New()
	b := New()

	a.RecordToolCall("get_currency_rates", "success", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ToolCallsTotal.WithLabelValues("get_currency_rates", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ToolCallsTotal.WithLabelValues("get_currency_rates", "success")))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.ObserveLLM("local", "success", time.Second)
	m.ObserveLLM("local", "error", time.Second)
	m.ObserveUpstream("rejected", 20*time.Millisecond)
	m.RecordQuery("openai", "success", 2*time.Second)
	m.RecordHTTPRequest("/query", "200", 2*time.Second)
	m.IncRequestsInFlight()
	m.IncRequestsInFlight()
	m.DecRequestsInFlight()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequestsTotal.WithLabelValues("local", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("openai", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/query", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveUpstream("success", 10*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `fxagent_exchangerate_requests_total{status="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
