// Quarry - Validated Search and Sort Contracts
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/quarry

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErrs  float64
	}{
		{"successful select", "SELECT", "test_products", nil, 0},
		{"failed count", "COUNT", "test_customers", errors.New("connection refused"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)

			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table))
			if got != tt.wantErrs {
				t.Errorf("errors counter = %v, want %v", got, tt.wantErrs)
			}
		})
	}
}

// TestRecordSearch verifies outcomes land on the right series
func TestRecordSearch(t *testing.T) {
	entity := "metrics_test_entity"

	RecordSearch(entity, "ok", "", 3, time.Millisecond)
	RecordSearch(entity, "rejected", "unknown_field", 0, time.Millisecond)
	RecordSearch(entity, "rejected", "", 0, time.Millisecond)
	RecordSearch(entity, "error", "", 0, time.Millisecond)

	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(entity, "rejected")); got != 2 {
		t.Errorf("rejected = %v, want 2", got)
	}
	if got := testutil.ToFloat64(SortRejectionsTotal.WithLabelValues(entity, "unknown_field")); got != 1 {
		t.Errorf("unknown_field rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SortRejectionsTotal.WithLabelValues(entity, "invalid_request")); got != 1 {
		t.Errorf("invalid_request rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues(entity, "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}
}

// TestRecordMutationAndEvents covers the mutation and publish counters
func TestRecordMutationAndEvents(t *testing.T) {
	RecordMutation("metrics_product", "CREATE", "committed")
	RecordMutation("metrics_product", "CREATE", "committed")
	if got := testutil.ToFloat64(MutationsTotal.WithLabelValues("metrics_product", "CREATE", "committed")); got != 2 {
		t.Errorf("mutations = %v, want 2", got)
	}

	RecordEventPublished("metrics.topic")
	RecordEventPublishFailed("metrics.topic", "timeout")
	if got := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("metrics.topic")); got != 1 {
		t.Errorf("published = %v, want 1", got)
	}
	if got := testutil.ToFloat64(EventsPublishFailedTotal.WithLabelValues("metrics.topic", "timeout")); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}

	RecordCircuitBreakerTransition("metrics-breaker", "closed", "open", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-breaker")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}
}

// TestTrackGauges simulates a request and publish lifecycle
func TestTrackGauges(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}

	TrackEventInFlight(true)
	TrackEventInFlight(false)
	if got := testutil.ToFloat64(EventsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

// TestConcurrentMetricRecording checks that recorders are goroutine-safe
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAPIRequest("GET", "/concurrent", "200", time.Millisecond)
			RecordRateLimitHit("/concurrent")
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/concurrent", "200")); got != 50 {
		t.Errorf("requests = %v, want 50", got)
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

func TestSetLiveFeedClients(t *testing.T) {
	SetLiveFeedClients(3)
	if got := testutil.ToFloat64(LiveFeedClients); got != 3 {
		t.Errorf("live_feed_clients = %v, want 3", got)
	}
	SetLiveFeedClients(0)
	if got := testutil.ToFloat64(LiveFeedClients); got != 0 {
		t.Errorf("live_feed_clients = %v, want 0", got)
	}
}

func TestRecordPolicyDecision(t *testing.T) {
	RecordPolicyDecision("metrics_order", "DELETE", false)
	RecordPolicyDecision("metrics_order", "DELETE", true)
	RecordPolicyDecision("metrics_order", "DELETE", false)

	if got := testutil.ToFloat64(PolicyDecisionsTotal.WithLabelValues("metrics_order", "DELETE", "deny")); got != 2 {
		t.Errorf("deny = %v, want 2", got)
	}
	if got := testutil.ToFloat64(PolicyDecisionsTotal.WithLabelValues("metrics_order", "DELETE", "allow")); got != 1 {
		t.Errorf("allow = %v, want 1", got)
	}
}
