package pricemanager

import (
	"time"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
)

// EventKind names the mutation an Event notifies about.
type EventKind string

const (
	EventRegistryCreated EventKind = "RegistryCreated"
	EventPricesUpdated   EventKind = "PricesUpdated"
	EventTreeCreated     EventKind = "TreeCreated"
	EventTreeRotated     EventKind = "TreeRotated"
)

var eventKinds = map[layout.Discriminator]EventKind{
	layout.EventDiscriminator(string(EventRegistryCreated)): EventRegistryCreated,
	layout.EventDiscriminator(string(EventPricesUpdated)):   EventPricesUpdated,
	layout.EventDiscriminator(string(EventTreeCreated)):     EventTreeCreated,
	layout.EventDiscriminator(string(EventTreeRotated)):     EventTreeRotated,
}

// Event notifies off-ledger observers about a completed mutation of a registry. Events are published with the
// collection as topic.
type Event struct {
	Kind       EventKind
	Collection model.Identity
	Owner      model.Identity
	// Timestamp is the unix time of the transaction in seconds.
	Timestamp int64
	// TreeAddress is the tree of the collection after the mutation.
	TreeAddress model.Identity
}

func EventFromBytes(b []byte) (*Event, error) {
	byteReader := stream.NewByteReader(b)

	d, err := layout.ReadAnyDiscriminator(byteReader)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to read discriminator")
	}

	kind, exists := eventKinds[d]
	if !exists {
		return nil, ierrors.Wrapf(layout.ErrInvalidDiscriminator, "unknown event %x", d)
	}

	e := &Event{Kind: kind}
	if e.Collection, err = stream.Read[model.Identity](byteReader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Collection")
	}
	if e.Owner, err = stream.Read[model.Identity](byteReader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Owner")
	}
	if e.Timestamp, err = stream.Read[int64](byteReader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Timestamp")
	}
	if e.TreeAddress, err = stream.Read[model.Identity](byteReader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TreeAddress")
	}

	return e, nil
}

func (e *Event) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if err := layout.WriteDiscriminator(byteBuffer, layout.EventDiscriminator(string(e.Kind))); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}
	if err := stream.Write(byteBuffer, e.Collection); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Collection")
	}
	if err := stream.Write(byteBuffer, e.Owner); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Owner")
	}
	if err := stream.Write(byteBuffer, e.Timestamp); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Timestamp")
	}
	if err := stream.Write(byteBuffer, e.TreeAddress); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TreeAddress")
	}

	return byteBuffer.Bytes()
}

func (e *Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

func (e *Event) String() string {
	return stringify.Struct("Event",
		stringify.NewStructField("Kind", string(e.Kind)),
		stringify.NewStructField("Collection", e.Collection),
		stringify.NewStructField("Owner", e.Owner),
		stringify.NewStructField("Timestamp", e.Timestamp),
		stringify.NewStructField("TreeAddress", e.TreeAddress),
	)
}

// emit appends the event for the registry to the transaction's event log. A failed emit fails the operation.
func emit(ctx engine.Context, kind EventKind, registry *Registry) error {
	e := &Event{
		Kind:        kind,
		Collection:  registry.Collection,
		Owner:       registry.Owner,
		Timestamp:   ctx.Timestamp().Unix(),
		TreeAddress: registry.TreeAddress,
	}

	data, err := e.Bytes()
	if err != nil {
		return ierrors.Wrapf(err, "failed to encode %s event", kind)
	}

	if err = ctx.EmitEvent(registry.Collection, data); err != nil {
		return ierrors.Wrapf(err, "failed to emit %s event", kind)
	}

	return nil
}
