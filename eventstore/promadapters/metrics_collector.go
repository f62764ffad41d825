// Package promadapters implements eventstore.MetricsCollector with the Prometheus client library.
package promadapters

import (
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

const helpFormat = "cyclerental metric "

// MetricsCollector creates histogram, counter, and gauge vectors on first use and registers them
// on the given prometheus.Registerer.
//
// The label names of a metric are fixed by its first observation. Later observations with another
// set of label names are dropped, as Prometheus cannot merge them into one vector.
type MetricsCollector struct {
	registerer prometheus.Registerer
	buckets    []float64

	mu         sync.Mutex
	histograms map[string]*labeledVec[*prometheus.HistogramVec]
	counters   map[string]*labeledVec[*prometheus.CounterVec]
	gauges     map[string]*labeledVec[*prometheus.GaugeVec]
}

type labeledVec[V any] struct {
	vec        V
	labelNames []string
}

// Option configures a MetricsCollector.
type Option func(*MetricsCollector)

// WithBuckets overrides the histogram buckets, the default is prometheus.DefBuckets.
func WithBuckets(buckets ...float64) Option {
	return func(m *MetricsCollector) {
		m.buckets = buckets
	}
}

// NewMetricsCollector creates a collector registering its metrics on registerer.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	m := &MetricsCollector{
		registerer: registerer,
		buckets:    prometheus.DefBuckets,
		histograms: make(map[string]*labeledVec[*prometheus.HistogramVec]),
		counters:   make(map[string]*labeledVec[*prometheus.CounterVec]),
		gauges:     make(map[string]*labeledVec[*prometheus.GaugeVec]),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// RecordDuration observes the duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := labelNames(labels)

	entry, ok := m.histograms[metric]
	if !ok {
		vec := prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: metric, Help: helpFormat + metric, Buckets: m.buckets},
			names,
		)

		registered, err := register(m.registerer, vec)
		if err != nil {
			return
		}

		entry = &labeledVec[*prometheus.HistogramVec]{vec: registered, labelNames: names}
		m.histograms[metric] = entry
	}

	if !slices.Equal(entry.labelNames, names) {
		return
	}

	entry.vec.With(labels).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := labelNames(labels)

	entry, ok := m.counters[metric]
	if !ok {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: helpFormat + metric}, names)

		registered, err := register(m.registerer, vec)
		if err != nil {
			return
		}

		entry = &labeledVec[*prometheus.CounterVec]{vec: registered, labelNames: names}
		m.counters[metric] = entry
	}

	if !slices.Equal(entry.labelNames, names) {
		return
	}

	entry.vec.With(labels).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := labelNames(labels)

	entry, ok := m.gauges[metric]
	if !ok {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: helpFormat + metric}, names)

		registered, err := register(m.registerer, vec)
		if err != nil {
			return
		}

		entry = &labeledVec[*prometheus.GaugeVec]{vec: registered, labelNames: names}
		m.gauges[metric] = entry
	}

	if !slices.Equal(entry.labelNames, names) {
		return
	}

	entry.vec.With(labels).Set(value)
}

// register returns the already registered collector when an identical one exists,
// so several MetricsCollectors can share one Registerer.
func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		if existing, ok := alreadyRegistered.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return collector, err
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
