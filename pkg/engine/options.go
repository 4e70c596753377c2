package engine

import (
	"time"

	"github.com/iotaledger/hive.go/runtime/options"
)

// WithClock sets the function that provides the timestamp of executed transactions.
func WithClock(clock func() time.Time) options.Option[Engine] {
	return func(e *Engine) {
		e.optsClock = clock
	}
}

// WithMaxCallDepth sets how deep programs can nest invocations of other programs.
func WithMaxCallDepth(depth int) options.Option[Engine] {
	return func(e *Engine) {
		e.optsMaxCallDepth = depth
	}
}

func WithMaxEventsPerTransaction(maxEvents int) options.Option[Engine] {
	return func(e *Engine) {
		e.optsMaxEventsPerTransaction = maxEvents
	}
}

func WithMaxAccountSize(size int) options.Option[Engine] {
	return func(e *Engine) {
		e.optsMaxAccountSize = size
	}
}
