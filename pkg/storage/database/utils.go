package database

import (
	"runtime"

	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/kvstore/rocksdb"
)

// StoreWithDefaultSettings returns a kvstore for the given engine in the given directory.
// The engine is checked against the engine that was used to create an already existing database.
func StoreWithDefaultSettings(directory string, createDatabaseIfNotExists bool, dbEngine db.Engine, allowedEngines ...db.Engine) (kvstore.KVStore, error) {
	// mapdb lives in memory only, so there is nothing to check on disk.
	if dbEngine == db.EngineMapDB {
		return mapdb.NewMapDB(), nil
	}

	engine, err := db.CheckEngine(directory, createDatabaseIfNotExists, dbEngine, allowedEngines)
	if err != nil {
		return nil, err
	}

	switch engine {
	case db.EngineRocksDB:
		rocksDB, err := NewRocksDB(directory)
		if err != nil {
			return nil, err
		}

		return rocksdb.New(rocksDB), nil

	case db.EngineMapDB:
		return mapdb.NewMapDB(), nil

	default:
		return nil, ierrors.Wrapf(ErrUnknownEngine, "%s, supported engines: rocksdb/mapdb", engine)
	}
}

// NewRocksDB creates a new RocksDB instance.
func NewRocksDB(path string) (*rocksdb.RocksDB, error) {
	return rocksdb.CreateDB(path,
		rocksdb.IncreaseParallelism(runtime.NumCPU()-1),
		rocksdb.Custom([]string{
			"periodic_compaction_seconds=43200",
			"level_compaction_dynamic_level_bytes=true",
			"keep_log_file_num=2",
			"max_log_file_size=50000000", // 50MB per log file
		}),
	)
}

func FlushAndClose(store kvstore.KVStore) error {
	if err := store.Flush(); err != nil {
		return err
	}

	return store.Close()
}
