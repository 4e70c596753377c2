package permanent

import (
	"cmp"
	"encoding/binary"
	"slices"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
)

// Events is the append-only event log of the ledger. Events are keyed by their index, so iteration follows the order
// in which they were committed.
type Events struct {
	store    kvstore.KVStore
	realmKey realmKey
}

func NewEvents(store kvstore.KVStore, realmKey realmKey) *Events {
	return &Events{
		store:    store,
		realmKey: realmKey,
	}
}

func eventKey(index uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, index)
}

// Stage stages the given event into the batch. The event index must already be assigned.
func (e *Events) Stage(batch kvstore.BatchedMutations, event *model.Event) error {
	eventBytes, err := event.Bytes()
	if err != nil {
		return ierrors.Wrapf(err, "failed to encode event %d", event.Index)
	}

	return batch.Set(e.realmKey(eventKey(event.Index)), eventBytes)
}

func (e *Events) Load(index uint64) (*model.Event, error) {
	value, err := e.store.Get(eventKey(index))
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to load event %d", index)
	}

	event, _, err := model.EventFromBytes(value)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to decode event %d", index)
	}

	return event, nil
}

// ForEach iterates over the events in ascending order, starting with the event at the given index.
func (e *Events) ForEach(startIndex uint64, consumer func(event *model.Event) bool) error {
	events := make([]*model.Event, 0)
	var innerErr error

	if err := e.store.Iterate(kvstore.EmptyPrefix, func(key kvstore.Key, value kvstore.Value) bool {
		if len(key) != 8 || binary.BigEndian.Uint64(key) < startIndex {
			return true
		}

		event, _, err := model.EventFromBytes(value)
		if err != nil {
			innerErr = ierrors.Wrapf(err, "failed to decode event %d", binary.BigEndian.Uint64(key))

			return false
		}

		events = append(events, event)

		return true
	}, kvstore.IterDirectionForward); err != nil {
		return err
	}
	if innerErr != nil {
		return innerErr
	}

	// not every engine guarantees ordered iteration
	slices.SortFunc(events, func(a, b *model.Event) int {
		return cmp.Compare(a.Index, b.Index)
	})

	for _, event := range events {
		if !consumer(event) {
			break
		}
	}

	return nil
}
