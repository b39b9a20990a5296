package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransfer(t *testing.T) {
	before := testutil.ToFloat64(transfers.WithLabelValues(OutcomeSettled))
	feeBefore := testutil.ToFloat64(commission)

	RecordTransfer(OutcomeSettled, 15)
	RecordTransfer(OutcomeRejected, 0)

	assert.Equal(t, before+1, testutil.ToFloat64(transfers.WithLabelValues(OutcomeSettled)))
	assert.Equal(t, feeBefore+15, testutil.ToFloat64(commission))
}

func TestHandler_ExposesLedgerMetrics(t *testing.T) {
	RecordHTTPRequest("GET", "/api/v1/statistics", "200", 3*time.Millisecond)
	RecordRateLookup("bitfinex", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ledger_http_requests_total")
	assert.Contains(t, string(body), "ledger_rates_lookups_total")
}
