package prometheus

import (
	"github.com/iotaledger/collection-pricing/components/prometheus/collector"
)

const (
	dbNamespace = "db"

	sizeBytesPermanent = "size_bytes_permanent"
	sizeBytesRetainer  = "size_bytes_retainer"
)

var DBMetrics = collector.NewCollection(dbNamespace,
	collector.WithMetric(collector.NewMetric(sizeBytesPermanent,
		collector.WithType(collector.Gauge),
		collector.WithHelp("DB size in bytes for permanent storage."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.Storage.PermanentDatabaseSize()), nil
		}),
	)),
	collector.WithMetric(collector.NewMetric(sizeBytesRetainer,
		collector.WithType(collector.Gauge),
		collector.WithHelp("DB size in bytes for the receipt and event retainer."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.Storage.RetainerDatabaseSize()), nil
		}),
	)),
)
