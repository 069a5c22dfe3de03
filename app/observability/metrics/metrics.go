package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RankingRequestsTotal     metric.Int64Counter
	RankingFallbacksTotal    metric.Int64Counter
	RefinementFailuresTotal  metric.Int64Counter
	ModelCallDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments once, against whatever
// MeterProvider is globally configured at that point. Before the SDK is set
// up (e.g. in unit tests) the global provider is a no-op, which is exactly
// what tests want.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-smart-destinations")
		var err error
		m := &AppMetrics{}

		m.RankingRequestsTotal, err = meter.Int64Counter(
			"ranking_requests_total",
			metric.WithDescription("Total number of AI ranking requests started"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ranking_requests_total: %v", err)
		}

		m.RankingFallbacksTotal, err = meter.Int64Counter(
			"ranking_fallbacks_total",
			metric.WithDescription("Ranking requests degraded to an empty result"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ranking_fallbacks_total: %v", err)
		}

		m.RefinementFailuresTotal, err = meter.Int64Counter(
			"refinement_failures_total",
			metric.WithDescription("Refinement interpretations surfaced as errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create refinement_failures_total: %v", err)
		}

		m.ModelCallDurationSeconds, err = meter.Float64Histogram(
			"model_call_duration_seconds",
			metric.WithDescription("Duration of generative model calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create model_call_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing it
// on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
