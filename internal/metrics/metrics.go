package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes handler latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// StoreOperationDuration observes gorm statement latency in seconds
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_store_operation_duration_seconds",
			Help:    "Persistent store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation", "table"},
	)

	// TaskMoves counts kanban moves by target column
	TaskMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_task_moves_total",
			Help: "Total number of task status moves",
		},
		[]string{"status"},
	)

	// TasksCreated counts created tasks by initial column
	TasksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_tasks_created_total",
			Help: "Total number of tasks created",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func RecordStoreOperation(operation, table string, d time.Duration) {
	StoreOperationDuration.WithLabelValues(operation, table).Observe(d.Seconds())
}

func IncTaskMove(status string) {
	TaskMoves.WithLabelValues(status).Inc()
}

func IncTaskCreated(status string) {
	TasksCreated.WithLabelValues(status).Inc()
}
