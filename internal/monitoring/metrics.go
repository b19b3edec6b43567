package monitoring

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// Metrics holds the run collectors on a dedicated registry so several runs
// (and tests) never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	generationsTotal prometheus.Counter
	bestFitness      prometheus.Gauge
	meanFitness      prometheus.Gauge
	populationSize   prometheus.Gauge
	stepDuration     prometheus.Histogram
	errorsTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers the evolver collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evolver_generations_total",
			Help: "Total number of generations stepped",
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evolver_best_fitness",
			Help: "Lowest cost in the last evaluated generation",
		}),
		meanFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evolver_mean_fitness",
			Help: "Mean cost of the last evaluated generation",
		}),
		populationSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evolver_population_size",
			Help: "Number of organisms in the last evaluated generation",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evolver_step_duration_seconds",
			Help:    "Time spent evaluating and selecting one generation",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evolver_errors_total",
				Help: "Total number of errors by category",
			},
			[]string{"category"},
		),
	}

	m.registry.MustRegister(
		m.generationsTotal,
		m.bestFitness,
		m.meanFitness,
		m.populationSize,
		m.stepDuration,
		m.errorsTotal,
	)
	return m
}

// Registry exposes the dedicated registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ReportGeneration records one generation report
func (m *Metrics) ReportGeneration(_ context.Context, report evolution.GenerationReport) error {
	m.generationsTotal.Inc()
	m.bestFitness.Set(float64(report.Stats.Best))
	m.meanFitness.Set(report.Stats.Mean)
	m.populationSize.Set(float64(report.Stats.PopulationSize))
	m.stepDuration.Observe(report.StepDuration.Seconds())
	return nil
}

// RecordError counts an error under its category
func (m *Metrics) RecordError(err error) {
	if err == nil {
		return
	}
	category := "UNKNOWN"
	if c, ok := everr.CategoryOf(err); ok {
		category = string(c)
	}
	m.errorsTotal.WithLabelValues(category).Inc()
}
