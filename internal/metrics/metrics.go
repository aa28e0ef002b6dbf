// Package metrics holds the Prometheus collectors of the ingestion pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source fetch metrics
	FetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2b_fetch_requests_total",
		Help: "Total number of page requests sent to the procurement API",
	}, []string{"kind", "category", "outcome"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "g2b_fetch_duration_seconds",
		Help:    "Time taken to fetch one page from the procurement API",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"kind"})

	// Record metrics
	RecordsFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2b_records_fetched_total",
		Help: "Total number of source items collected by the category walker",
	}, []string{"kind"})

	RecordsStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2b_records_stored_total",
		Help: "Total number of records upserted successfully",
	}, []string{"kind"})

	RecordsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2b_records_failed_total",
		Help: "Total number of records skipped because they could not be upserted",
	}, []string{"kind"})

	// Run metrics
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2b_ingest_runs_total",
		Help: "Total number of ingestion runs by trigger and final status",
	}, []string{"trigger", "status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "g2b_ingest_run_duration_seconds",
		Help:    "Time taken by one ingestion run",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	RunInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "g2b_ingest_run_in_progress",
		Help: "Whether an ingestion run currently holds the guard (1=yes, 0=no)",
	})

	// Enrichment metrics
	EnrichmentRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2b_enrichment_records_total",
		Help: "Total number of notices processed by the enrichment pass",
	}, []string{"outcome"})
)
