package prometheus

import (
	"github.com/iotaledger/collection-pricing/components/prometheus/collector"
)

const (
	restapiNamespace = "restapi"

	requestsTotal              = "requests_total"
	failedRequestsTotal        = "failed_requests_total"
	submittedTransactionsTotal = "submitted_transactions_total"
)

var RestAPIMetrics = collector.NewCollection(restapiNamespace,
	collector.WithMetric(collector.NewMetric(requestsTotal,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of requests handled by the REST API."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.ServerMetrics.Requests.Load()), nil
		}),
	)),
	collector.WithMetric(collector.NewMetric(failedRequestsTotal,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of requests the REST API answered with an error."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.ServerMetrics.FailedRequests.Load()), nil
		}),
	)),
	collector.WithMetric(collector.NewMetric(submittedTransactionsTotal,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of transactions submitted through the REST API."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.ServerMetrics.SubmittedTransactions.Load()), nil
		}),
	)),
)
