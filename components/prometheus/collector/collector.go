package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
)

var ErrUnknownMetric = ierrors.New("unknown metric")

// Collector owns a prometheus registry and the collections registered to it.
type Collector struct {
	Registry    *prometheus.Registry
	collections *shrinkingmap.ShrinkingMap[string, *Collection]
}

// New creates a Collector with a fresh prometheus registry.
func New() *Collector {
	return &Collector{
		Registry:    prometheus.NewRegistry(),
		collections: shrinkingmap.New[string, *Collection](),
	}
}

// RegisterCollection registers all metrics of the collection and runs their init functions.
func (c *Collector) RegisterCollection(collection *Collection) error {
	c.collections.Set(collection.CollectionName, collection)

	for _, m := range collection.Metrics() {
		if err := c.Registry.Register(m.promMetric); err != nil {
			return ierrors.Wrapf(err, "failed to register metric %s_%s", m.Namespace, m.Name)
		}

		if m.initValueFunc != nil {
			value, labelValues := m.initValueFunc()
			if err := m.update(value, labelValues...); err != nil {
				return err
			}
		}

		if m.initFunc != nil {
			m.initFunc()
		}
	}

	return nil
}

// Collect pulls the values of all metrics that have a collect func.
func (c *Collector) Collect() error {
	var err error
	c.collections.ForEach(func(_ string, collection *Collection) bool {
		for _, metric := range collection.Metrics() {
			err = ierrors.Join(err, metric.collect())
		}

		return true
	})

	return err
}

// Update sets (gauge) or adds (counter) the value of the metric. Label values must be passed in the order the labels
// were defined in.
func (c *Collector) Update(namespace string, metricName string, value float64, labelValues ...string) error {
	m, err := c.metric(namespace, metricName)
	if err != nil {
		return err
	}

	return m.update(value, labelValues...)
}

// Increment increments the value of the metric by one.
func (c *Collector) Increment(namespace string, metricName string, labelValues ...string) error {
	m, err := c.metric(namespace, metricName)
	if err != nil {
		return err
	}

	return m.increment(labelValues...)
}

func (c *Collector) metric(namespace string, metricName string) (*Metric, error) {
	collection, exists := c.collections.Get(namespace)
	if !exists {
		return nil, ierrors.Wrapf(ErrUnknownMetric, "namespace %s", namespace)
	}

	metric, exists := collection.Metric(metricName)
	if !exists {
		return nil, ierrors.Wrapf(ErrUnknownMetric, "%s_%s", namespace, metricName)
	}

	return metric, nil
}
