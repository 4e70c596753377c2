package prometheus

import (
	"runtime"
	"strconv"

	"github.com/iotaledger/collection-pricing/components/prometheus/collector"
	"github.com/iotaledger/collection-pricing/pkg/model"
)

const (
	infoNamespace = "info"

	appName  = "app"
	nodeOS   = "node_os"
	programs = "programs"
	memUsage = "memory_usage_bytes"
)

var InfoMetrics = collector.NewCollection(infoNamespace,
	collector.WithMetric(collector.NewMetric(appName,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Node software name and version."),
		collector.WithLabels("name", "version"),
		collector.WithInitValueFunc(func() (metricValue float64, labelValues []string) {
			return 0, []string{deps.AppInfo.Name, deps.AppInfo.Version}
		}),
	)),
	collector.WithMetric(collector.NewMetric(nodeOS,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Node OS data."),
		collector.WithLabels("nodeID", "OS", "ARCH", "NUM_CPU"),
		collector.WithInitValueFunc(func() (metricValue float64, labelValues []string) {
			return 0, []string{deps.NodeID.String(), runtime.GOOS, runtime.GOARCH, strconv.Itoa(runtime.GOMAXPROCS(0))}
		}),
	)),
	collector.WithMetric(collector.NewMetric(programs,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Programs deployed on the node."),
		collector.WithLabels("name", "programID"),
		collector.WithInitFunc(func() {
			for _, program := range deps.Engine.Programs() {
				if err := deps.Collector.Update(infoNamespace, programs, 1, program.Name(), program.ID().String()); err != nil {
					Component.LogWarnf("failed to publish program %s: %s", program.Name(), err)
				}
			}
		}),
	)),
	collector.WithMetric(collector.NewMetric(memUsage,
		collector.WithType(collector.Gauge),
		collector.WithHelp("The memory usage in bytes of allocated heap objects"),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			return float64(m.Alloc), nil
		}),
	)),
)

func programName(programID model.Identity) string {
	if program, exists := deps.Engine.Program(programID); exists {
		return program.Name()
	}

	return programID.Alias()
}
