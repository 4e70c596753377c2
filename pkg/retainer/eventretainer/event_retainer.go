// Package eventretainer keeps an off-ledger index of executed transactions and committed events in a SQL database,
// so that they can be queried by transaction id and by topic.
package eventretainer

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage/sqlstore"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/event"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/workerpool"
)

const DefaultMaxEventsPerQuery = 1000

// EventRetainer stores the receipts and events of the engine in the SQL database.
type EventRetainer struct {
	database     *retainerDatabase
	workers      *workerpool.Group
	workerPool   *workerpool.WorkerPool
	errorHandler func(error)
	unhook       func()

	optsStoreErrorMessages bool
	optsMaxEventsPerQuery  int

	log.Logger
}

// WithStoreErrorMessages configures the EventRetainer to store the error messages of failed transactions.
func WithStoreErrorMessages(store bool) options.Option[EventRetainer] {
	return func(r *EventRetainer) {
		r.optsStoreErrorMessages = store
	}
}

// WithMaxEventsPerQuery limits the number of events returned by a single query.
func WithMaxEventsPerQuery(maxEvents int) options.Option[EventRetainer] {
	return func(r *EventRetainer) {
		r.optsMaxEventsPerQuery = maxEvents
	}
}

func New(logger log.Logger, dbExecFunc sqlstore.ExecFunc, errorHandler func(error), opts ...options.Option[EventRetainer]) (*EventRetainer, error) {
	database, err := newRetainerDatabase(dbExecFunc)
	if err != nil {
		return nil, err
	}

	workers := workerpool.NewGroup("EventRetainer")

	return options.Apply(&EventRetainer{
		database:               database,
		workers:                workers,
		workerPool:             workers.CreatePool("EventRetainer", workerpool.WithWorkerCount(1)),
		errorHandler:           errorHandler,
		unhook:                 func() {},
		optsStoreErrorMessages: true,
		optsMaxEventsPerQuery:  DefaultMaxEventsPerQuery,
		Logger:                 logger,
	}, opts), nil
}

// NewForEngine creates an EventRetainer on the retainer database of the engine's storage and attaches it to the
// engine's events.
func NewForEngine(logger log.Logger, e *engine.Engine, errorHandler func(error), opts ...options.Option[EventRetainer]) (*EventRetainer, error) {
	r, err := New(logger, e.Storage().RetainerDatabaseExecFunc(), errorHandler, opts...)
	if err != nil {
		return nil, err
	}

	r.Attach(e)

	return r, nil
}

// Attach hooks the retainer to the transaction events of the engine. Receipts are stored asynchronously in the order
// the transactions finished.
func (r *EventRetainer) Attach(e *engine.Engine) {
	asyncOpt := event.WithWorkerPool(r.workerPool)

	executedHook := e.Events.TransactionExecuted.Hook(r.onTransactionFinished, asyncOpt)
	failedHook := e.Events.TransactionFailed.Hook(r.onTransactionFinished, asyncOpt)

	r.unhook = func() {
		executedHook.Unhook()
		failedHook.Unhook()
	}
}

func (r *EventRetainer) onTransactionFinished(receipt *engine.Receipt) {
	r.LogTrace("EventRetainer.TransactionFinished", "tx", receipt.TransactionID, "committed", receipt.Committed)

	var events []*EventRecord
	// only committed events carry a valid index
	if receipt.Committed {
		events = lo.Map(receipt.Events, newEventRecord)
	}

	if err := r.database.StoreReceipt(newReceiptRecord(receipt, r.optsStoreErrorMessages), events); err != nil {
		r.errorHandler(ierrors.Wrapf(err, "failed to retain transaction %s", receipt.TransactionID))
	}
}

// Receipt returns the stored receipt of the transaction. A committed receipt takes precedence over failed ones.
func (r *EventRetainer) Receipt(transactionID model.TransactionID) (*ReceiptRecord, error) {
	return r.database.ReceiptByTransactionID(transactionID)
}

// EventsByTopic returns at most limit committed events of the topic, starting at the given event index.
func (r *EventRetainer) EventsByTopic(topic model.Identity, startIndex uint64, limit int) ([]*model.Event, error) {
	if limit <= 0 || limit > r.optsMaxEventsPerQuery {
		return nil, ierrors.Wrapf(ErrInvalidQuery, "limit must be in [1, %d], got %d", r.optsMaxEventsPerQuery, limit)
	}

	records, err := r.database.EventsByTopic(topic, startIndex, limit)
	if err != nil {
		return nil, err
	}

	return toEvents(records)
}

// EventsByTransactionID returns the committed events of the transaction.
func (r *EventRetainer) EventsByTransactionID(transactionID model.TransactionID) ([]*model.Event, error) {
	records, err := r.database.EventsByTransactionID(transactionID)
	if err != nil {
		return nil, err
	}

	return toEvents(records)
}

// PruneFailedReceipts removes receipts of failed executions that are older than the given unix timestamp.
func (r *EventRetainer) PruneFailedReceipts(before int64) error {
	deleted, err := r.database.PruneReceipts(before)
	if err != nil {
		return err
	}

	r.LogDebug("pruned failed receipts", "count", deleted, "before", before)

	return nil
}

// WaitIdle blocks until all pending receipts were written to the database.
func (r *EventRetainer) WaitIdle() {
	r.workers.WaitChildren()
}

func (r *EventRetainer) Shutdown() {
	r.unhook()
	r.workers.Shutdown()
}

func toEvents(records []*EventRecord) ([]*model.Event, error) {
	events := make([]*model.Event, 0, len(records))
	for _, record := range records {
		e, err := record.Event()
		if err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	return events, nil
}
