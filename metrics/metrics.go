// Package metrics 定义推荐引擎的 Prometheus 指标（promauto 注册到默认 Registry）。
//
//	contentrec_recommend_requests_total{status}      推荐调用次数（ok / error / empty）
//	contentrec_recommend_duration_seconds            推荐调用耗时
//	contentrec_candidates_scored_total               进入打分的候选数
//	contentrec_candidates_below_threshold_total      因相关性下限被丢弃的候选数
//	contentrec_circuit_breaker_state{name}           熔断状态（0=closed, 1=half-open, 2=open）
//	contentrec_circuit_breaker_requests_total{name,result}
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contentrec"

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_requests_total",
			Help:      "Total number of recommendation calls",
		},
		[]string{"status"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation call latency",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_scored_total",
			Help:      "Candidates that reached the scoring stage",
		},
	)

	CandidatesBelowThreshold = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_below_threshold_total",
			Help:      "Candidates dropped by the relevance floor",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)
)
