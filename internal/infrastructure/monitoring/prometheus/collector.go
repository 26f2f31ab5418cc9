// Package prometheus exposes the service metrics on a private registry.
package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// MetricsCollector registers metrics and serves them for scraping.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	// RegisterCounterFunc exposes a monotonically increasing value owned
	// elsewhere, such as a consumer's processed-message count.
	RegisterCounterFunc(name, help string, fn func() float64)
	Handler() http.Handler
}

// CounterVec, GaugeVec and HistogramVec hand out labelled children.
type CounterVec interface{ WithLabelValues(lvs ...string) Counter }
type GaugeVec interface{ WithLabelValues(lvs ...string) Gauge }
type HistogramVec interface{ WithLabelValues(lvs ...string) Histogram }

type Counter interface {
	Inc()
	Add(delta float64)
}

type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
}

type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Namespace            string
	Subsystem            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

var defaultBuckets = prometheus.DefBuckets

type prometheusCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector on a fresh registry, so two
// collectors never share metric names.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.New(errors.ErrCodeValidation, "metrics namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}

	return &prometheusCollector{
		registry:   registry,
		config:     cfg,
		logger:     logger,
		registered: make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// lookupOrRegister returns the collector already registered under name when
// there is one, and otherwise registers fresh.
func (c *prometheusCollector) lookupOrRegister(name string, fresh prometheus.Collector) (prometheus.Collector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fqName := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.registered[fqName]; ok {
		return existing, nil
	}
	if err := c.registry.Register(fresh); err != nil {
		return nil, err
	}
	c.registered[fqName] = fresh
	return fresh, nil
}

// registerVec registers fresh under name and returns it as V.  A
// registration failure or a name already taken by another metric type
// yields ok=false and is logged.
func registerVec[V prometheus.Collector](c *prometheusCollector, kind, name string, fresh V) (vec V, ok bool) {
	got, err := c.lookupOrRegister(name, fresh)
	if err != nil {
		c.logger.Error("failed to register metric", logging.String("name", name), logging.String("type", kind), logging.Err(err))
		return vec, false
	}
	vec, ok = got.(V)
	if !ok {
		c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("type", kind))
	}
	return vec, ok
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec, ok := registerVec(c, "counter", name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help,
	}, labels))
	if !ok {
		return noopCounters{}
	}
	return counterVec{vec}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec, ok := registerVec(c, "gauge", name, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help,
	}, labels))
	if !ok {
		return noopGauges{}
	}
	return gaugeVec{vec}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = defaultBuckets
	}
	vec, ok := registerVec(c, "histogram", name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels))
	if !ok {
		return noopHistograms{}
	}
	return histogramVec{vec}
}

func (c *prometheusCollector) RegisterCounterFunc(name, help string, fn func() float64) {
	registerVec(c, "counter_func", name, prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: c.config.Namespace, Subsystem: c.config.Subsystem, Name: name, Help: help,
	}, fn))
}

type counterVec struct{ *prometheus.CounterVec }

func (v counterVec) WithLabelValues(lvs ...string) Counter { return v.CounterVec.WithLabelValues(lvs...) }

type gaugeVec struct{ *prometheus.GaugeVec }

func (v gaugeVec) WithLabelValues(lvs ...string) Gauge { return v.GaugeVec.WithLabelValues(lvs...) }

type histogramVec struct{ *prometheus.HistogramVec }

func (v histogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.HistogramVec.WithLabelValues(lvs...)
}

// The noop vectors stand in for a metric that could not be registered.
type (
	noopCounters   struct{}
	noopGauges     struct{}
	noopHistograms struct{}
)

func (noopCounters) WithLabelValues(...string) Counter     { return noopMetric{} }
func (noopGauges) WithLabelValues(...string) Gauge         { return noopMetric{} }
func (noopHistograms) WithLabelValues(...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Dec()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

//Personal.AI order the ending
