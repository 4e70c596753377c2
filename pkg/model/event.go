package model

import (
	"io"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
)

// Event is an immutable entry of the ledger's event log, emitted by a program during the execution of a transaction.
type Event struct {
	// Index is the position of the event in the global event log. It is assigned when the transaction is committed.
	Index         uint64
	TransactionID TransactionID
	ProgramID     Identity
	// Topic is chosen by the emitting program and allows observers to filter events (e.g. by collection).
	Topic Identity
	Data  []byte
}

func EventFromBytes(b []byte) (*Event, int, error) {
	byteReader := stream.NewByteReader(b)

	e, err := EventFromReader(byteReader)
	if err != nil {
		return nil, 0, ierrors.Wrap(err, "failed to parse Event")
	}

	return e, byteReader.BytesRead(), nil
}

func EventFromReader(reader io.ReadSeeker) (*Event, error) {
	var err error
	e := new(Event)

	if e.Index, err = stream.Read[uint64](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Index")
	}
	if e.TransactionID, err = stream.Read[TransactionID](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TransactionID")
	}
	if e.ProgramID, err = stream.Read[Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read ProgramID")
	}
	if e.Topic, err = stream.Read[Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Topic")
	}
	if e.Data, err = stream.ReadBytesWithSize(reader, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Data")
	}

	return e, nil
}

func (e *Event) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if err := stream.Write(byteBuffer, e.Index); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Index")
	}
	if err := stream.Write(byteBuffer, e.TransactionID); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TransactionID")
	}
	if err := stream.Write(byteBuffer, e.ProgramID); err != nil {
		return nil, ierrors.Wrap(err, "failed to write ProgramID")
	}
	if err := stream.Write(byteBuffer, e.Topic); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Topic")
	}
	if err := stream.WriteBytesWithSize(byteBuffer, e.Data, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Data")
	}

	return byteBuffer.Bytes()
}

func (e *Event) String() string {
	return stringify.Struct("Event",
		stringify.NewStructField("Index", e.Index),
		stringify.NewStructField("TransactionID", e.TransactionID),
		stringify.NewStructField("ProgramID", e.ProgramID),
		stringify.NewStructField("Topic", e.Topic),
		stringify.NewStructField("DataLength", len(e.Data)),
	)
}
