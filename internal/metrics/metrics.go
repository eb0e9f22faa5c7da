package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UploadsTotal counts upload attempts by outcome (stored, rejected, error).
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_uploads_total",
			Help: "Total number of file upload attempts by outcome",
		},
		[]string{"outcome"},
	)

	// UploadBytesTotal counts bytes accepted into the file store.
	UploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "file_upload_bytes_total",
			Help: "Total bytes stored via uploads",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	filePathSegment    = regexp.MustCompile(`^/files/[^/]+$`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UploadsTotal, UploadBytesTotal)
	})
}

// NormalizePath reduces label cardinality: numeric path segments become {id}
// and download/delete targets become /files/{name}.
// E.g. /users/123 -> /users/{id}, /files/report.pdf -> /files/{name}.
func NormalizePath(path string) string {
	if filePathSegment.MatchString(path) {
		return "/files/{name}"
	}
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordUpload records one upload attempt. bytes is only added for outcome "stored".
func RecordUpload(outcome string, bytes int64) {
	UploadsTotal.WithLabelValues(outcome).Inc()
	if outcome == "stored" && bytes > 0 {
		UploadBytesTotal.Add(float64(bytes))
	}
}
