package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordHTTPRequest("GET", "/api/v1/products", 200, 15*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/products", 200, 5*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/products/:id", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/products", "200")); got != 2 {
		t.Errorf("expected 2 requests, got %f", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/products/:id", "404")); got != 1 {
		t.Errorf("expected 1 not found request, got %f", got)
	}
}

func TestInFlight(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.InFlightStarted()
	m.InFlightStarted()
	m.InFlightFinished()

	if got := testutil.ToFloat64(m.httpInFlight); got != 1 {
		t.Errorf("expected 1 in-flight request, got %f", got)
	}
}

func TestRecordCommit(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordCommit("sqlite", 3, time.Millisecond, nil)
	m.RecordCommit("sqlite", 0, time.Millisecond, nil)
	m.RecordCommit("sqlite", 0, time.Millisecond, errors.New("boom"))

	for result, want := range map[string]float64{"success": 1, "empty": 1, "failure": 1} {
		if got := testutil.ToFloat64(m.commits.WithLabelValues("sqlite", result)); got != want {
			t.Errorf("%s commits = %f, want %f", result, got, want)
		}
	}
	if got := testutil.ToFloat64(m.commitRows.WithLabelValues("sqlite")); got != 3 {
		t.Errorf("expected 3 rows affected, got %f", got)
	}
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewWithRegisterer(reg)
	second := NewWithRegisterer(reg)

	first.RecordCommit("memory", 1, 0, nil)
	if got := testutil.ToFloat64(second.commits.WithLabelValues("memory", "success")); got != 1 {
		t.Errorf("second instance should share collectors, got %f", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordHTTPRequest("GET", "/", 200, 0)
	m.RecordCommit("memory", 1, 0, nil)
	m.InFlightStarted()
	m.InFlightFinished()
}
