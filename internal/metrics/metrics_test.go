package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuthEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthEvent(EventLogin, OutcomeSuccess)
	c.RecordAuthEvent(EventLogin, OutcomeSuccess)
	c.RecordAuthEvent(EventLogin, OutcomeFailure)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.authEvents.WithLabelValues(EventLogin, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authEvents.WithLabelValues(EventLogin, OutcomeFailure)))
}

func TestRecordUpload(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpload("avatar", nil)
	c.RecordUpload("coverImage", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("avatar", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.uploads.WithLabelValues("coverImage", OutcomeFailure)))
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodPost, "/api/v1/users/login", http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodPost, "/api/v1/users/login", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.httpLatency))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuthEvent(EventRegister, OutcomeSuccess)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "accounts_auth_events_total"))
}
