package metrics

import "go.uber.org/atomic"

// ServerMetrics defines metrics over the entire runtime of the REST API.
type ServerMetrics struct {
	// The number of handled requests.
	Requests atomic.Uint64
	// The number of requests that were answered with an error.
	FailedRequests atomic.Uint64
	// The number of submitted transactions, regardless of their outcome.
	SubmittedTransactions atomic.Uint64
}
