package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
)

const testDBVersion byte = 1

type TestFramework struct {
	t         *testing.T
	directory string
	opts      []options.Option[storage.Storage]
	Instance  *storage.Storage
}

func NewTestFramework(t *testing.T, storageOpts ...options.Option[storage.Storage]) *TestFramework {
	tf := &TestFramework{
		t:         t,
		directory: t.TempDir(),
		opts:      storageOpts,
	}
	tf.Instance = tf.open()

	return tf
}

func (f *TestFramework) open() *storage.Storage {
	instance, err := storage.Create(log.NewLogger(), f.directory, testDBVersion, func(err error) {
		f.t.Error(err)
	}, f.opts...)
	require.NoError(f.t, err)

	return instance
}

// Restart shuts the storage down and opens it again from the same directory.
func (f *TestFramework) Restart() {
	f.Instance.Shutdown()
	f.Instance = f.open()
}

func (f *TestFramework) Shutdown() {
	f.Instance.Shutdown()
}

// Commit stages the given accounts and events in a single batch and commits it.
func (f *TestFramework) Commit(accounts map[model.Identity]*model.Account, events ...*model.Event) {
	batch, err := f.Instance.Batched()
	require.NoError(f.t, err)

	for address, account := range accounts {
		require.NoError(f.t, f.Instance.Accounts().Stage(batch, address, account))
	}

	eventCount := f.Instance.Settings().EventCount()
	for _, event := range events {
		event.Index = eventCount
		eventCount++

		require.NoError(f.t, f.Instance.Events().Stage(batch, event))
	}

	transactionCount := f.Instance.Settings().TransactionCount() + 1
	require.NoError(f.t, f.Instance.Settings().StageCounters(batch, eventCount, transactionCount))

	require.NoError(f.t, batch.Commit())

	f.Instance.Accounts().Apply(accounts)
	f.Instance.Settings().ApplyCounters(eventCount, transactionCount)
}

func (f *TestFramework) AssertAccount(address model.Identity, expected *model.Account) {
	account, err := f.Instance.Accounts().Load(address)
	require.NoError(f.t, err)
	require.True(f.t, expected.Equal(account), "expected %s, got %s", expected, account)
}

func (f *TestFramework) AssertEvents(startIndex uint64, expectedTopics ...model.Identity) {
	topics := make([]model.Identity, 0)
	require.NoError(f.t, f.Instance.Events().ForEach(startIndex, func(event *model.Event) bool {
		topics = append(topics, event.Topic)

		return true
	}))

	require.Len(f.t, topics, len(expectedTopics))
	for i, expectedTopic := range expectedTopics {
		require.Equal(f.t, expectedTopic, topics[i])
	}
}
