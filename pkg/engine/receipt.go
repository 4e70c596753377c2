package engine

import (
	"time"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/stringify"
)

// Receipt describes the outcome of a transaction.
type Receipt struct {
	TransactionID model.TransactionID
	Timestamp     time.Time
	// Signers are the identities whose signatures were verified.
	Signers []model.Identity
	// Committed is true if the effects of the transaction were written to the ledger.
	Committed bool
	// Err is the reason the transaction failed, nil on success.
	Err error
	// ReturnData is the return data of the last executed instruction.
	ReturnData []byte
	// Events are the events emitted by the transaction. Indexes are only assigned to committed events.
	Events []*model.Event
}

func (r *Receipt) Succeeded() bool {
	return r.Err == nil
}

func (r *Receipt) String() string {
	builder := stringify.NewStructBuilder("Receipt",
		stringify.NewStructField("TransactionID", r.TransactionID),
		stringify.NewStructField("Committed", r.Committed),
		stringify.NewStructField("Events", len(r.Events)),
	)

	if r.Err != nil {
		builder.AddField(stringify.NewStructField("Err", r.Err.Error()))
	}

	return builder.String()
}
