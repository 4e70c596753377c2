package collector

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
)

var ErrLabelMismatch = ierrors.New("label values do not match the labels of the metric")

type MetricType uint8

const (
	// Gauge is a metric that represents a single numerical value that can arbitrarily go up and down.
	// During an update the collected value is set.
	Gauge MetricType = iota
	// Counter is a cumulative metric that only ever goes up.
	// During an update the collected value is added to its current value.
	Counter
)

// Metric is a single metric that is registered to the prometheus registry. Its value is either pulled with the
// collect func on every scrape, or pushed through the Collector (Update, Increment) from an event hook that was set up
// in the init func.
type Metric struct {
	Name      string
	Type      MetricType
	Namespace string

	help          string
	labels        []string
	collectFunc   func() (value float64, labelValues []string)
	initValueFunc func() (value float64, labelValues []string)
	initFunc      func()

	promMetric prometheus.Collector
	once       sync.Once
}

// NewMetric creates a new metric with the given name and options.
func NewMetric(name string, opts ...options.Option[Metric]) *Metric {
	return options.Apply(&Metric{
		Name: name,
	}, opts)
}

func (m *Metric) initPromMetric() {
	m.once.Do(func() {
		switch m.Type {
		case Gauge:
			gaugeOpts := prometheus.GaugeOpts{Name: m.Name, Namespace: m.Namespace, Help: m.help}
			if len(m.labels) > 0 {
				m.promMetric = prometheus.NewGaugeVec(gaugeOpts, m.labels)

				return
			}
			m.promMetric = prometheus.NewGauge(gaugeOpts)
		case Counter:
			counterOpts := prometheus.CounterOpts{Name: m.Name, Namespace: m.Namespace, Help: m.help}
			if len(m.labels) > 0 {
				m.promMetric = prometheus.NewCounterVec(counterOpts, m.labels)

				return
			}
			m.promMetric = prometheus.NewCounter(counterOpts)
		}
	})
}

func (m *Metric) collect() error {
	if m.collectFunc == nil {
		return nil
	}

	value, labelValues := m.collectFunc()

	return m.update(value, labelValues...)
}

func (m *Metric) update(value float64, labelValues ...string) error {
	if len(labelValues) != len(m.labels) {
		return ierrors.Wrapf(ErrLabelMismatch, "metric %s_%s: %d != %d", m.Namespace, m.Name, len(labelValues), len(m.labels))
	}

	switch metric := m.promMetric.(type) {
	case prometheus.Gauge:
		metric.Set(value)
	case *prometheus.GaugeVec:
		metric.WithLabelValues(labelValues...).Set(value)
	case prometheus.Counter:
		metric.Add(value)
	case *prometheus.CounterVec:
		metric.WithLabelValues(labelValues...).Add(value)
	}

	return nil
}

func (m *Metric) increment(labelValues ...string) error {
	if len(labelValues) != len(m.labels) {
		return ierrors.Wrapf(ErrLabelMismatch, "metric %s_%s: %d != %d", m.Namespace, m.Name, len(labelValues), len(m.labels))
	}

	switch metric := m.promMetric.(type) {
	case prometheus.Gauge:
		metric.Inc()
	case *prometheus.GaugeVec:
		metric.WithLabelValues(labelValues...).Inc()
	case prometheus.Counter:
		metric.Inc()
	case *prometheus.CounterVec:
		metric.WithLabelValues(labelValues...).Inc()
	}

	return nil
}

// WithType sets the metric type.
func WithType(t MetricType) options.Option[Metric] {
	return func(m *Metric) {
		m.Type = t
	}
}

func WithHelp(help string) options.Option[Metric] {
	return func(m *Metric) {
		m.help = help
	}
}

// WithLabels defines the labels of the metric. Label values have to be passed in the same order on every update.
func WithLabels(labels ...string) options.Option[Metric] {
	return func(m *Metric) {
		m.labels = labels
	}
}

// WithCollectFunc sets the function that is called on every scrape to read the current value.
func WithCollectFunc(collectFunc func() (metricValue float64, labelValues []string)) options.Option[Metric] {
	return func(m *Metric) {
		m.collectFunc = collectFunc
	}
}

// WithInitValueFunc sets the function that provides the value of the metric when it is registered.
func WithInitValueFunc(initValueFunc func() (metricValue float64, labelValues []string)) options.Option[Metric] {
	return func(m *Metric) {
		m.initValueFunc = initValueFunc
	}
}

// WithInitFunc sets a function that is called once when the metric is registered. It is used to hook the metric to
// events instead of pulling its value.
func WithInitFunc(initFunc func()) options.Option[Metric] {
	return func(m *Metric) {
		m.initFunc = initFunc
	}
}
