package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResolution(t *testing.T) {
	before := testutil.ToFloat64(resolutionsTotal.WithLabelValues("not_found", "rewrite"))

	RecordResolution("not_found", "rewrite", time.Millisecond)

	after := testutil.ToFloat64(resolutionsTotal.WithLabelValues("not_found", "rewrite"))
	assert.InDelta(t, 1, after-before, 0)
}

func TestRecordRateLimited(t *testing.T) {
	before := testutil.ToFloat64(rateLimitedTotal.WithLabelValues("admin"))

	RecordRateLimited("admin")
	RecordRateLimited("admin")

	assert.InDelta(t, 2, testutil.ToFloat64(rateLimitedTotal.WithLabelValues("admin"))-before, 0)
}

func TestHandler(t *testing.T) {
	RecordPublishError("url.resolved")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `community_event_publish_errors_total{topic="url.resolved"}`)
}
