package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

var (
	// Replay metrics
	barsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_timing_bars_recorded_total",
			Help: "Total number of instants recorded by market timings",
		},
		[]string{"timing", "asset"},
	)

	reportingCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "market_timing_reporting_cycles_total",
			Help: "Total number of completed reporting cycles",
		},
	)

	// Timing metrics
	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_timing_status_transitions_total",
			Help: "Total number of BULL/BEAR transitions",
		},
		[]string{"timing", "to"},
	)

	timingStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "market_timing_status",
			Help: "Current status of a market timing, 1 for BULL and -1 for BEAR",
		},
		[]string{"timing"},
	)

	// Reporting metrics
	valuesReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_timing_values_reported_total",
			Help: "Total number of values reported by reporter",
		},
		[]string{"reporter"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_timing_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(barsRecorded)
	prometheus.MustRegister(reportingCycles)
	prometheus.MustRegister(statusTransitions)
	prometheus.MustRegister(timingStatus)
	prometheus.MustRegister(valuesReported)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Recorder is the hook market timings report their activity through
type Recorder interface {
	RecordBar(timing, asset string)
	RecordTransition(timing string, to types.BearBull)
	RecordValues(reporter string, n int)
}

// PrometheusRecorder forwards to the package collectors
type PrometheusRecorder struct{}

func (PrometheusRecorder) RecordBar(timing, asset string) {
	barsRecorded.WithLabelValues(timing, asset).Inc()
}

func (PrometheusRecorder) RecordTransition(timing string, to types.BearBull) {
	statusTransitions.WithLabelValues(timing, to.String()).Inc()
	timingStatus.WithLabelValues(timing).Set(float64(to.Sign()))
}

func (PrometheusRecorder) RecordValues(reporter string, n int) {
	if n > 0 {
		valuesReported.WithLabelValues(reporter).Add(float64(n))
	}
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) RecordBar(string, string)                {}
func (NopRecorder) RecordTransition(string, types.BearBull) {}
func (NopRecorder) RecordValues(string, int)                {}

// SetStatus publishes the status of a timing without counting a transition
func SetStatus(timing string, status types.BearBull) {
	timingStatus.WithLabelValues(timing).Set(float64(status.Sign()))
}

// RecordCycle counts one completed reporting cycle
func RecordCycle() {
	reportingCycles.Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
