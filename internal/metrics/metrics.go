package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Task pipeline metrics
	TasksStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_tasks_started_total",
			Help: "Total number of task workflows started",
		},
		[]string{"domain"},
	)

	TasksCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_tasks_completed_total",
			Help: "Total number of task workflows completed",
		},
		[]string{"domain", "status"},
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "omnix_task_duration_seconds",
			Help:    "Task workflow duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)

	// Research metrics
	SearchCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_search_calls_total",
			Help: "Total number of web search calls",
		},
		[]string{"status"},
	)

	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_pages_fetched_total",
			Help: "Total number of page fetch attempts",
		},
		[]string{"status"},
	)

	// Delivery metrics
	ReportsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_reports_delivered_total",
			Help: "Total number of report delivery attempts",
		},
		[]string{"status"},
	)

	// Page cache metrics
	PageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omnix_page_cache_hits_total",
			Help: "Total number of page cache hits",
		},
	)

	PageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omnix_page_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// Persistence metrics
	ExecutionsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_executions_persisted_total",
			Help: "Total number of execution records written",
		},
		[]string{"status"},
	)

	// Pattern reload metrics
	PatternReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "omnix_pattern_reloads_total",
			Help: "Total number of keyword pattern reloads",
		},
		[]string{"status"},
	)
)
