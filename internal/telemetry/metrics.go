// Package telemetry owns the Prometheus collectors recorded by the engine.
package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Transformations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtkeras_transformations_total",
		Help: "Transformations applied to a follow-up test set.",
	}, []string{"op", "domain"})

	RelationEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtkeras_relation_evaluations_total",
		Help: "Relation evaluations performed.",
	}, []string{"relation"})

	RelationViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtkeras_relation_violations_total",
		Help: "Violating cases reported by relation evaluations.",
	}, []string{"relation"})

	OracleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mtkeras_oracle_duration_seconds",
		Help:    "Time spent in one oracle invocation over a whole dataset.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"oracle"})

	OracleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mtkeras_oracle_failures_total",
		Help: "Oracle invocations or elements that failed.",
	}, []string{"oracle"})
)

func TransformationApplied(op, domain string) {
	Transformations.WithLabelValues(op, domain).Inc()
}

func RelationEvaluated(relation string, violations int) {
	RelationEvaluations.WithLabelValues(relation).Inc()
	RelationViolations.WithLabelValues(relation).Add(float64(violations))
}

func OracleObserved(oracle string, d time.Duration, err error) {
	OracleDuration.WithLabelValues(oracle).Observe(d.Seconds())
	if err != nil {
		OracleFailures.WithLabelValues(oracle).Inc()
	}
}

// Expose serves /metrics on port in the background. A port <= 0 disables it.
func Expose(port int) {
	if port <= 0 {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()
}
