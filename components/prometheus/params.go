package prometheus

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersPrometheus contains the definition of the parameters used by the Prometheus exporter.
type ParametersPrometheus struct {
	// Enabled defines whether the Prometheus exporter is enabled.
	Enabled bool `default:"true" usage:"whether the Prometheus exporter is enabled"`
	// BindAddress defines the bind address for the Prometheus exporter server.
	BindAddress string `default:"0.0.0.0:9311" usage:"bind address on which the Prometheus exporter server"`
	// RestAPIMetrics defines whether the request counters of the REST API are exported.
	RestAPIMetrics bool `default:"true" usage:"include the request counters of the REST API"`
	// GoMetrics defines whether to include Go metrics.
	GoMetrics bool `default:"false" usage:"include go metrics"`
	// ProcessMetrics defines whether to include process metrics.
	ProcessMetrics bool `default:"false" usage:"include process metrics"`
	// PromhttpMetrics defines whether to include promhttp metrics.
	PromhttpMetrics bool `default:"false" usage:"include promhttp metrics"`
}

// ParamsPrometheus contains the configuration used by the Prometheus exporter.
var ParamsPrometheus = &ParametersPrometheus{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"prometheus": ParamsPrometheus,
	},
}
