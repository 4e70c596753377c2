package database

import (
	"sync"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
)

// DBInstance is a kvstore with health tracking. The database is marked as corrupted while it is open and only marked
// healthy again on a clean shutdown.
type DBInstance struct {
	store         kvstore.KVStore
	healthTracker *kvstore.StoreHealthTracker
	dbConfig      Config
	closeOnce     sync.Once
}

func NewDBInstance(dbConfig Config) (*DBInstance, error) {
	store, err := StoreWithDefaultSettings(dbConfig.Directory, true, dbConfig.Engine, dbConfig.AllowedEngines...)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to open database in %s", dbConfig.Directory)
	}

	storeHealthTracker, err := kvstore.NewStoreHealthTracker(store, dbConfig.PrefixHealth, dbConfig.Version, nil)
	if err != nil {
		return nil, ierrors.Join(ErrDatabaseCorrupted, ierrors.Wrapf(err, "database in %s is corrupted, delete database and restart node", dbConfig.Directory))
	}

	if err = storeHealthTracker.MarkCorrupted(); err != nil {
		return nil, ierrors.Wrap(err, "failed to mark database as corrupted")
	}

	return &DBInstance{
		store:         store,
		healthTracker: storeHealthTracker,
		dbConfig:      dbConfig,
	}, nil
}

// Close marks the database as healthy and closes it.
func (d *DBInstance) Close() error {
	var err error

	d.closeOnce.Do(func() {
		if err = d.healthTracker.MarkHealthy(); err != nil {
			err = ierrors.Wrap(err, "failed to mark database as healthy")

			return
		}

		err = FlushAndClose(d.store)
	})

	return err
}

func (d *DBInstance) Flush() error {
	return d.store.Flush()
}

func (d *DBInstance) KVStore() kvstore.KVStore {
	return d.store
}

func (d *DBInstance) Config() Config {
	return d.dbConfig
}
