package permanent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/lo"
)

func TestEvents_ForEachFailsOnCorruptEvent(t *testing.T) {
	store := mapdb.NewMapDB()
	events := NewEvents(store, newRealmKey(eventsPrefix))

	for index := range uint64(2) {
		require.NoError(t, store.Set(eventKey(index), lo.PanicOnErr((&model.Event{Index: index, Topic: model.Identity{byte(index)}}).Bytes())))
	}

	var topics []model.Identity
	require.NoError(t, events.ForEach(0, func(event *model.Event) bool {
		topics = append(topics, event.Topic)

		return true
	}))
	require.Equal(t, []model.Identity{{0}, {1}}, topics)

	require.NoError(t, store.Set(eventKey(2), []byte{0xff}))

	var consumed int
	err := events.ForEach(0, func(*model.Event) bool {
		consumed++

		return true
	})
	require.ErrorContains(t, err, "failed to decode event 2")
	require.Zero(t, consumed)

	// the corrupt event is not decoded when iterating from behind it
	require.NoError(t, events.ForEach(3, func(*model.Event) bool {
		consumed++

		return true
	}))
	require.Zero(t, consumed)
}
