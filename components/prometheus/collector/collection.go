package collector

import (
	"github.com/iotaledger/hive.go/runtime/options"
)

// Collection groups the metrics of one namespace. Metrics are registered in the order they were added.
type Collection struct {
	CollectionName string

	metricsByName map[string]*Metric
	orderedNames  []string
}

func NewCollection(name string, opts ...options.Option[Collection]) *Collection {
	return options.Apply(&Collection{
		CollectionName: name,
		metricsByName:  make(map[string]*Metric),
	}, opts, func(c *Collection) {
		for _, metric := range c.metricsByName {
			metric.Namespace = c.CollectionName
			metric.initPromMetric()
		}
	})
}

// Metric returns the metric with the given name.
func (c *Collection) Metric(metricName string) (*Metric, bool) {
	metric, exists := c.metricsByName[metricName]

	return metric, exists
}

// Metrics returns all metrics of the collection.
func (c *Collection) Metrics() []*Metric {
	metrics := make([]*Metric, 0, len(c.orderedNames))
	for _, name := range c.orderedNames {
		metrics = append(metrics, c.metricsByName[name])
	}

	return metrics
}

// WithMetric adds a metric to the collection. A later metric with the same name replaces the earlier one.
func WithMetric(metric *Metric) options.Option[Collection] {
	return func(c *Collection) {
		if metric == nil {
			return
		}

		if _, exists := c.metricsByName[metric.Name]; !exists {
			c.orderedNames = append(c.orderedNames, metric.Name)
		}
		c.metricsByName[metric.Name] = metric
	}
}
