package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/projects/{id}", "404"))

	RecordAPIRequest("GET", "/api/projects/{id}", 404, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/projects/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordNotification(t *testing.T) {
	ok := NotificationsSent.WithLabelValues("owner_email", "success")
	failed := NotificationsSent.WithLabelValues("owner_email", "failure")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordNotification("owner_email", nil)
	RecordNotification("owner_email", errors.New("smtp down"))
	RecordNotification("owner_email", errors.New("smtp down"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(failed))
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}
