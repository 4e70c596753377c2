package eventretainer

import (
	"encoding/hex"
	"fmt"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

// ReceiptRecord is the outcome of an executed transaction as stored in the SQL database.
// The same transaction can be executed more than once (e.g. after it failed with a lock conflict), therefore the
// database keeps one record per execution.
type ReceiptRecord struct {
	ID            uint64 `gorm:"autoIncrement"`
	TransactionID []byte `gorm:"notnull;index:receipt_transaction_ids"`
	Timestamp     int64  `gorm:"notnull"`
	Committed     bool   `gorm:"notnull"`
	EventCount    uint32 `gorm:"notnull"`
	ReturnData    []byte
	ErrorMsg      *string
}

func (r *ReceiptRecord) String() string {
	errorMsg := ""
	if r.ErrorMsg != nil {
		errorMsg = *r.ErrorMsg
	}

	return fmt.Sprintf("receipt => TxID: %s, Timestamp: %d, Committed: %t, Events: %d, ErrorMsg: \"%s\"", hex.EncodeToString(r.TransactionID), r.Timestamp, r.Committed, r.EventCount, errorMsg)
}

// EventRecord is a committed event as stored in the SQL database. Its primary key is the index in the ledger's
// event log.
type EventRecord struct {
	Index         uint64 `gorm:"primaryKey;autoIncrement:false"`
	TransactionID []byte `gorm:"notnull;index:event_transaction_ids"`
	ProgramID     []byte `gorm:"notnull"`
	Topic         []byte `gorm:"notnull;index:event_topics"`
	Data          []byte
}

func newReceiptRecord(receipt *engine.Receipt, storeErrorMessages bool) *ReceiptRecord {
	record := &ReceiptRecord{
		TransactionID: lo.CopySlice(receipt.TransactionID[:]),
		Timestamp:     receipt.Timestamp.Unix(),
		Committed:     receipt.Committed,
		EventCount:    uint32(len(receipt.Events)),
		ReturnData:    lo.CopySlice(receipt.ReturnData),
	}

	if receipt.Err != nil && storeErrorMessages {
		errorMsg := receipt.Err.Error()
		record.ErrorMsg = &errorMsg
	}

	return record
}

func newEventRecord(event *model.Event) *EventRecord {
	return &EventRecord{
		Index:         event.Index,
		TransactionID: lo.CopySlice(event.TransactionID[:]),
		ProgramID:     lo.CopySlice(event.ProgramID[:]),
		Topic:         lo.CopySlice(event.Topic[:]),
		Data:          lo.CopySlice(event.Data),
	}
}

// Event converts the record back into a ledger event.
func (e *EventRecord) Event() (*model.Event, error) {
	event := &model.Event{
		Index: e.Index,
		Data:  lo.CopySlice(e.Data),
	}

	if copy(event.TransactionID[:], e.TransactionID) != model.TransactionIDLength {
		return nil, ierrors.Errorf("invalid transaction id length in event %d", e.Index)
	}

	var err error
	if event.ProgramID, _, err = model.IdentityFromBytes(e.ProgramID); err != nil {
		return nil, ierrors.Wrapf(err, "invalid program id in event %d", e.Index)
	}
	if event.Topic, _, err = model.IdentityFromBytes(e.Topic); err != nil {
		return nil, ierrors.Wrapf(err, "invalid topic in event %d", e.Index)
	}

	return event, nil
}
