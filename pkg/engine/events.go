package engine

import "github.com/iotaledger/hive.go/runtime/event"

// Events represents events happening in the Engine.
type Events struct {
	// TransactionExecuted gets triggered when a transaction was executed and its effects were committed.
	TransactionExecuted *event.Event1[*Receipt]
	// TransactionFailed gets triggered when a transaction failed and none of its effects were committed.
	TransactionFailed *event.Event1[*Receipt]
	// Error gets triggered when the engine encounters an error that is not attributable to a transaction.
	Error *event.Event1[error]

	event.Group[Events, *Events]
}

// NewEvents creates a new Events instance.
var NewEvents = event.CreateGroupConstructor(func() *Events {
	return &Events{
		TransactionExecuted: event.New1[*Receipt](),
		TransactionFailed:   event.New1[*Receipt](),
		Error:               event.New1[error](),
	}
})
