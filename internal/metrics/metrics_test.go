package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	ScansTotal.WithLabelValues("/drop", "initial").Inc()
	ScansTotal.WithLabelValues("/drop", "event").Add(2)
	assert.Equal(t, 1.0, testutil.ToFloat64(ScansTotal.WithLabelValues("/drop", "initial")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ScansTotal.WithLabelValues("/drop", "event")))

	Collections.WithLabelValues("/drop").Set(3)
	Collections.WithLabelValues("/drop").Set(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(Collections.WithLabelValues("/drop")))
}

func TestHandler(t *testing.T) {
	Remainder.WithLabelValues("/handler-test").Set(7)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `framekit_collect_remainder{root="/handler-test"} 7`)
}
