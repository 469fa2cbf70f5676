package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	m := New()
	m.Callbacks.WithLabelValues("league").Inc()
	m.CacheHits.Inc()

	srv := httptest.NewServer(m.Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `oddsbot_callbacks_total{action="league"} 1`)
	assert.Contains(t, string(body), "oddsbot_odds_cache_hits_total 1")
}

func TestHealthz(t *testing.T) {
	m := New()

	ok := httptest.NewServer(m.Router(func() error { return nil }))
	defer ok.Close()
	resp, err := http.Get(ok.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := httptest.NewServer(m.Router(func() error { return errors.New("down") }))
	defer down.Close()
	resp, err = http.Get(down.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
