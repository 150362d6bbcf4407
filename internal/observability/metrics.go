package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "scorecards"

// Metrics holds the Prometheus counters, histograms, and gauges for report runs.
type Metrics struct {
	CitiesProcessed    *prometheus.CounterVec // labels: language, outcome={succeeded,failed}
	TemplatesRendered  *prometheus.CounterVec // labels: template
	RenderErrors       prometheus.Counter
	ResourcesGenerated prometheus.Counter
	CityDuration       prometheus.Histogram
	RunRunning         prometheus.Gauge

	// Basemap cache lookups by result={hit,miss}.
	BasemapCache *prometheus.CounterVec
}

func newMetrics() *Metrics {
	return &Metrics{
		CitiesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cities_processed_total",
			Help:      "Cities processed by language and outcome.",
		}, []string{"language", "outcome"}),
		TemplatesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "templates_rendered_total",
			Help:      "Scorecards rendered by template.",
		}, []string{"template"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Scorecard or resource rendering failures.",
		}),
		ResourcesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_generated_total",
			Help:      "Resource images written.",
		}),
		CityDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "city_duration_seconds",
			Help:      "Duration of processing one city in one language.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_running",
			Help:      "1 while a report run is in progress, 0 otherwise.",
		}),
		BasemapCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basemap_cache_total",
			Help:      "Basemap cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CitiesProcessed,
		m.TemplatesRendered,
		m.RenderErrors,
		m.ResourcesGenerated,
		m.CityDuration,
		m.RunRunning,
		m.BasemapCache,
	}
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Push sends the run metrics to a Prometheus Pushgateway under job.
func (m *Metrics) Push(url, job string) error {
	p := push.New(url, job)
	for _, c := range m.collectors() {
		p = p.Collector(c)
	}
	if err := p.Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
