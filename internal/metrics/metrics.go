package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jobportal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	applicationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobportal_applications_created_total",
		Help: "Applications submitted by job seekers",
	})

	statusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_application_status_changes_total",
		Help: "Application status updates by target status",
	}, []string{"status"})

	historyWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_history_writes_total",
		Help: "Application history rows written, by result",
	}, []string{"result"})

	jobCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobportal_job_cache_lookups_total",
		Help: "Job listing cache lookups, by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ApplicationCreated() { applicationsCreated.Inc() }

func StatusChanged(status string) { statusChanges.WithLabelValues(status).Inc() }

// HistoryWrite records the outcome of persisting one history row ("ok" or "error").
func HistoryWrite(result string) { historyWrites.WithLabelValues(result).Inc() }

// JobCacheLookup records a listing cache "hit", "miss" or "error".
func JobCacheLookup(result string) { jobCacheLookups.WithLabelValues(result).Inc() }
