package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/collection-pricing/pkg/storage/permanent"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/kvstore"
)

func TestStorage_CommitAccountsAndEvents(t *testing.T) {
	tf := NewTestFramework(t, storage.WithDBEngine(db.EngineMapDB))
	defer tf.Shutdown()

	address := model.Identity{1}
	account := model.NewAccount(model.Identity{2}, 10)
	account.Data[0] = 42

	_, err := tf.Instance.Accounts().Load(address)
	require.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	tf.Commit(map[model.Identity]*model.Account{address: account},
		&model.Event{ProgramID: model.Identity{2}, Topic: model.Identity{10}},
		&model.Event{ProgramID: model.Identity{2}, Topic: model.Identity{11}},
	)
	tf.AssertAccount(address, account)
	tf.AssertEvents(0, model.Identity{10}, model.Identity{11})
	tf.AssertEvents(1, model.Identity{11})

	tf.Commit(nil, &model.Event{ProgramID: model.Identity{2}, Topic: model.Identity{12}})
	tf.AssertEvents(0, model.Identity{10}, model.Identity{11}, model.Identity{12})

	require.EqualValues(t, 3, tf.Instance.Settings().EventCount())
	require.EqualValues(t, 2, tf.Instance.Settings().TransactionCount())

	event, err := tf.Instance.Events().Load(2)
	require.NoError(t, err)
	require.Equal(t, model.Identity{12}, event.Topic)
}

func TestStorage_CancelledBatch(t *testing.T) {
	tf := NewTestFramework(t, storage.WithDBEngine(db.EngineMapDB))
	defer tf.Shutdown()

	batch, err := tf.Instance.Batched()
	require.NoError(t, err)

	require.NoError(t, tf.Instance.Accounts().Stage(batch, model.Identity{1}, model.NewAccount(model.Identity{2}, 4)))
	require.NoError(t, tf.Instance.Events().Stage(batch, &model.Event{Index: 0}))
	batch.Cancel()

	exists, err := tf.Instance.Accounts().Has(model.Identity{1})
	require.NoError(t, err)
	require.False(t, exists)
	tf.AssertEvents(0)
}

func TestStorage_LoadReturnsCopies(t *testing.T) {
	tf := NewTestFramework(t, storage.WithDBEngine(db.EngineMapDB), storage.WithPermanentOptions(permanent.WithAccountCacheSize(1)))
	defer tf.Shutdown()

	address := model.Identity{1}
	tf.Commit(map[model.Identity]*model.Account{address: model.NewAccount(model.Identity{2}, 4)})

	loaded, err := tf.Instance.Accounts().Load(address)
	require.NoError(t, err)
	loaded.Data[0] = 1

	tf.AssertAccount(address, model.NewAccount(model.Identity{2}, 4))
}

func TestStorage_Restart(t *testing.T) {
	tf := NewTestFramework(t, storage.WithDBEngine(db.EngineRocksDB))
	defer tf.Shutdown()

	programID := model.Identity{7}
	require.NoError(t, tf.Instance.Settings().RegisterProgram("price-manager", programID))

	address := model.Identity{1}
	account := model.NewAccount(programID, 8)
	tf.Commit(map[model.Identity]*model.Account{address: account}, &model.Event{ProgramID: programID, Topic: model.Identity{3}})

	tf.Restart()

	tf.AssertAccount(address, account)
	tf.AssertEvents(0, model.Identity{3})
	require.EqualValues(t, 1, tf.Instance.Settings().EventCount())
	require.EqualValues(t, 1, tf.Instance.Settings().TransactionCount())
	require.Equal(t, map[string]model.Identity{"price-manager": programID}, tf.Instance.Settings().Programs())

	require.NoError(t, tf.Instance.Settings().RegisterProgram("price-manager", programID))
	require.ErrorIs(t, tf.Instance.Settings().RegisterProgram("price-manager", model.Identity{8}), permanent.ErrProgramIDMismatch)

	_, err := tf.Instance.Settings().NodeSeed()
	require.ErrorIs(t, err, permanent.ErrNodeSeedNotFound)

	seed := []byte{1, 2, 3, 4}
	require.NoError(t, tf.Instance.Settings().StoreNodeSeed(seed))

	tf.Restart()

	storedSeed, err := tf.Instance.Settings().NodeSeed()
	require.NoError(t, err)
	require.Equal(t, seed, storedSeed)
}

func TestStorage_Transactions(t *testing.T) {
	tf := NewTestFramework(t, storage.WithDBEngine(db.EngineRocksDB))
	defer tf.Shutdown()

	committed, cancelled := model.TransactionID{1}, model.TransactionID{2}

	batch, err := tf.Instance.Batched()
	require.NoError(t, err)
	require.NoError(t, tf.Instance.Transactions().Stage(batch, committed, 5))
	require.NoError(t, batch.Commit())

	batch, err = tf.Instance.Batched()
	require.NoError(t, err)
	require.NoError(t, tf.Instance.Transactions().Stage(batch, cancelled, 6))
	batch.Cancel()

	tf.Restart()

	exists, err := tf.Instance.Transactions().Has(committed)
	require.NoError(t, err)
	require.True(t, exists)

	index, err := tf.Instance.Transactions().Index(committed)
	require.NoError(t, err)
	require.EqualValues(t, 5, index)

	exists, err = tf.Instance.Transactions().Has(cancelled)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = tf.Instance.Transactions().Index(cancelled)
	require.ErrorIs(t, err, kvstore.ErrKeyNotFound)
}
