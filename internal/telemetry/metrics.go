package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics exported on /metrics. Tier labels match
// models.ResultTier strings.
var (
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholard_search_requests_total",
		Help: "Paper search requests by domain",
	}, []string{"domain"})

	SearchCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholard_search_cache_hits_total",
		Help: "Search requests served from the day-scoped cache",
	}, []string{"domain"})

	ResultsByTier = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholard_search_results_total",
		Help: "Papers returned, by resolution tier",
	}, []string{"domain", "tier"})

	SourceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholard_source_errors_total",
		Help: "Failed calls to the external paper source",
	}, []string{"operation"})

	RecommendationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scholard_recommendation_failures_total",
		Help: "Recommendation requests that produced no parsable items",
	})

	PDFDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scholard_pdf_downloads_total",
		Help: "PDF downloads by outcome",
	}, []string{"outcome"})
)
