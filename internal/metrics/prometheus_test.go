package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistrySingleton(t *testing.T) {
	if Get() != Get() {
		t.Fatal("Get should return the same registry")
	}
}

func TestRecorders(t *testing.T) {
	r := Get()

	r.RecordAPIRequest("POST", "/api/net/ifstate", 200, 0.01)
	if got := testutil.ToFloat64(r.APIRequests.WithLabelValues("POST", "/api/net/ifstate", "200")); got != 1 {
		t.Errorf("api requests = %v, want 1", got)
	}

	r.RecordAuthFailure("expired")
	r.RecordAuthFailure("expired")
	if got := testutil.ToFloat64(r.AuthFailures.WithLabelValues("expired")); got != 2 {
		t.Errorf("auth failures = %v, want 2", got)
	}

	r.RecordLinkChange("eth0", "Up")
	if got := testutil.ToFloat64(r.LinkChanges.WithLabelValues("eth0", "Up")); got != 1 {
		t.Errorf("link changes = %v, want 1", got)
	}

	r.RecordBusyRejection("wlan0")
	if got := testutil.ToFloat64(r.BusyRejections.WithLabelValues("wlan0")); got != 1 {
		t.Errorf("busy rejections = %v, want 1", got)
	}
}
