package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the service metrics.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Extraction
	ExtractionsTotal   CounterVec
	ExtractionDuration HistogramVec
	ExtractedStates    HistogramVec
	RecordsSavedTotal  CounterVec
	RecordsFailedTotal CounterVec
	QueueJobsTotal     CounterVec
	UploadSizeBytes    HistogramVec

	// Store and cache
	StoredRecords    GaugeVec
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultModelDurationBuckets = []float64{1, 2, 5, 10, 20, 30, 60, 120, 180}
	DefaultStateCountBuckets    = []float64{0, 1, 5, 10, 20, 30, 40}
	DefaultSizeBuckets          = []float64{10e3, 100e3, 1e6, 5e6, 10e6}
)

// NewAppMetrics registers the service metrics with collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests")

	m.ExtractionsTotal = collector.RegisterCounter("extractions_total", "PDF extractions by outcome", "outcome")
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_seconds", "Model extraction latency", DefaultModelDurationBuckets, "outcome")
	m.ExtractedStates = collector.RegisterHistogram("extracted_states", "States extracted per document", DefaultStateCountBuckets)
	m.RecordsSavedTotal = collector.RegisterCounter("records_saved_total", "FRA records persisted", "source")
	m.RecordsFailedTotal = collector.RegisterCounter("records_failed_total", "FRA records that could not be persisted", "source")
	m.QueueJobsTotal = collector.RegisterCounter("queue_jobs_total", "Extraction queue jobs by status", "status")
	m.UploadSizeBytes = collector.RegisterHistogram("upload_size_bytes", "Uploaded document size", DefaultSizeBuckets)

	m.StoredRecords = collector.RegisterGauge("stored_records", "Records in the store at the last refresh")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Statistics cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Statistics cache misses", "cache")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// Helpers.  All of them accept a nil *AppMetrics so callers can run without
// metrics.

func RecordHTTPRequest(m *AppMetrics, method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordExtraction(m *AppMetrics, outcome string, duration time.Duration, states int) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	m.ExtractionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == "success" {
		m.ExtractedStates.WithLabelValues().Observe(float64(states))
	}
}

func RecordUpload(m *AppMetrics, size int64) {
	if m == nil {
		return
	}
	m.UploadSizeBytes.WithLabelValues().Observe(float64(size))
}

func RecordSaved(m *AppMetrics, source string, saved, failed int) {
	if m == nil {
		return
	}
	m.RecordsSavedTotal.WithLabelValues(source).Add(float64(saved))
	if failed > 0 {
		m.RecordsFailedTotal.WithLabelValues(source).Add(float64(failed))
	}
}

func RecordQueueJob(m *AppMetrics, status string) {
	if m == nil {
		return
	}
	m.QueueJobsTotal.WithLabelValues(status).Inc()
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func SetStoredRecords(m *AppMetrics, n int) {
	if m == nil {
		return
	}
	m.StoredRecords.WithLabelValues().Set(float64(n))
}

func SetHealth(m *AppMetrics, component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func RecordError(m *AppMetrics, component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
