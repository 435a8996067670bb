package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "framevault"
	subsystem = "asset_api"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 120},
		},
		[]string{"method", "endpoint"},
	)

	// Server-mediated uploads
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uploads_total",
			Help:      "Total file uploads",
		},
		[]string{"file_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"file_type"},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_operations_total",
			Help:      "Total object storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_duration_seconds",
			Help:      "Object storage operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 30},
		},
		[]string{"operation"},
	)

	PresignDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "presign_duration_seconds",
			Help:      "Presigned URL generation duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"method", "status"},
	)

	ReconcileDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_deleted_total",
			Help:      "Orphan blobs removed by the reconciliation sweep",
		},
	)

	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation sweeps by outcome",
		},
		[]string{"status"},
	)
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records a server-mediated file upload
func RecordUpload(fileType string, bytes int64, err error) {
	status := statusLabel(err)
	UploadsTotal.WithLabelValues(fileType, status).Inc()
	if err == nil {
		UploadBytesTotal.WithLabelValues(fileType).Add(float64(bytes))
	}
}

// RecordStorageOperation records an object storage call
func RecordStorageOperation(operation string, duration time.Duration, err error) {
	StorageOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
	StorageDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPresign records presigned URL generation
func RecordPresign(method string, duration time.Duration, err error) {
	PresignDuration.WithLabelValues(method, statusLabel(err)).Observe(duration.Seconds())
}

// RecordReconcile records the outcome of a reconciliation sweep
func RecordReconcile(deleted int, err error) {
	ReconcileRunsTotal.WithLabelValues(statusLabel(err)).Inc()
	if deleted > 0 {
		ReconcileDeletedTotal.Add(float64(deleted))
	}
}
