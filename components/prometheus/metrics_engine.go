package prometheus

import (
	"github.com/iotaledger/collection-pricing/components/prometheus/collector"
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/hive.go/runtime/event"
)

const (
	engineNamespace = "engine"

	executedTransactionsTotal = "executed_transactions_total"
	failedTransactionsTotal   = "failed_transactions_total"
	eventsTotal               = "events_total"
	lockedAccountsCount       = "locked_accounts_count"
	ledgerEventsCount         = "ledger_events_count"
	ledgerTransactionsCount   = "ledger_transactions_count"
)

var EngineMetrics = collector.NewCollection(engineNamespace,
	collector.WithMetric(collector.NewMetric(executedTransactionsTotal,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of transactions that were committed since the node was started."),
		collector.WithInitFunc(func() {
			deps.Engine.Events.TransactionExecuted.Hook(func(receipt *engine.Receipt) {
				incrementMetric(engineNamespace, executedTransactionsTotal)

				for _, e := range receipt.Events {
					incrementMetric(engineNamespace, eventsTotal, programName(e.ProgramID))
				}
			}, event.WithWorkerPool(Component.WorkerPool))
		}),
	)),
	collector.WithMetric(collector.NewMetric(failedTransactionsTotal,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of transactions that failed during execution since the node was started."),
		collector.WithInitFunc(func() {
			deps.Engine.Events.TransactionFailed.Hook(func(_ *engine.Receipt) {
				incrementMetric(engineNamespace, failedTransactionsTotal)
			}, event.WithWorkerPool(Component.WorkerPool))
		}),
	)),
	collector.WithMetric(collector.NewMetric(eventsTotal,
		collector.WithType(collector.Counter),
		collector.WithHelp("Number of committed events per program since the node was started."),
		collector.WithLabels("program"),
	)),
	collector.WithMetric(collector.NewMetric(lockedAccountsCount,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of accounts locked by transactions in flight."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.Engine.LockedAccounts()), nil
		}),
	)),
	collector.WithMetric(collector.NewMetric(ledgerEventsCount,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of events in the ledger's event log."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.Storage.Settings().EventCount()), nil
		}),
	)),
	collector.WithMetric(collector.NewMetric(ledgerTransactionsCount,
		collector.WithType(collector.Gauge),
		collector.WithHelp("Number of transactions committed to the ledger."),
		collector.WithCollectFunc(func() (metricValue float64, labelValues []string) {
			return float64(deps.Storage.Settings().TransactionCount()), nil
		}),
	)),
)

func incrementMetric(namespace string, metricName string, labelValues ...string) {
	if err := deps.Collector.Increment(namespace, metricName, labelValues...); err != nil {
		Component.LogWarnf("failed to increment metric %s_%s: %s", namespace, metricName, err)
	}
}
