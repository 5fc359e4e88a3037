package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecommendRequests(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("ok"))
	RecommendRequests.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(RecommendRequests.WithLabelValues("ok")); got != before+1 {
		t.Errorf("recommend_requests_total{status=ok} = %v, want %v", got, before+1)
	}
}

func TestCircuitBreakerState(t *testing.T) {
	CircuitBreakerState.WithLabelValues("test").Set(2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("test")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
}
