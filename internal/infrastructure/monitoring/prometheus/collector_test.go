package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)

	c, err := NewMetricsCollector(CollectorConfig{Namespace: "fra", EnableProcessMetrics: true, EnableGoMetrics: true}, logging.NewNopLogger())
	require.NoError(t, err)
	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("http_requests", "HTTP requests", "method").WithLabelValues("GET").Add(5)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_http_requests{method="GET"} 5`)
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_counter", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_counter", "help").WithLabelValues().Inc()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_counter 2")
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("stored", "Stored").WithLabelValues().Set(10)
	c.RegisterHistogram("latency", "Latency", nil).WithLabelValues().Observe(0.1)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_stored 10")
	assert.Contains(t, out, "test_unit_latency_bucket")
}

func TestRegisterCounterFunc(t *testing.T) {
	c := newTestCollector(t)
	var processed float64 = 7
	c.RegisterCounterFunc("messages_processed", "Processed", func() float64 { return processed })

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_messages_processed 7")
	processed = 9
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_messages_processed 9")
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_concurrent{id="1"} 50`)
}

func TestTypeConflictReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()
	c.RegisterGauge("conflict", "help").WithLabelValues().Set(10)

	assert.Contains(t, scrapeMetrics(t, c), "# TYPE test_unit_conflict counter")
}

func TestInvalidNameReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	assert.NotPanics(t, func() {
		c.RegisterCounter("bad-name", "help").WithLabelValues().Inc()
		c.RegisterHistogram("bad-name", "help", []float64{1}).WithLabelValues().Observe(2)
	})
	assert.NotContains(t, scrapeMetrics(t, c), "bad")
}

//Personal.AI order the ending
