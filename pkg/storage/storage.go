package storage

import (
	"sync"

	"github.com/iotaledger/collection-pricing/pkg/storage/database"
	"github.com/iotaledger/collection-pricing/pkg/storage/permanent"
	"github.com/iotaledger/collection-pricing/pkg/storage/sqlstore"
	"github.com/iotaledger/collection-pricing/pkg/storage/utils"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
)

// DatabaseVersion is the version of the ledger schema. Bump it on incompatible changes of the stored formats.
const DatabaseVersion byte = 1

const (
	permanentDirName   = "permanent"
	retainerSQLDirName = "retainer_sql"
	retainerSQLFile    = "event_retainer.db"

	storePrefixHealth byte = 255
)

// Storage is an abstraction around the storage layer of the node.
type Storage struct {
	dir *utils.Directory

	// permanent holds the ledger state (accounts, events, committed transaction IDs and settings).
	permanent *permanent.Permanent

	// retainerSQL holds the off-ledger index of events and transaction receipts.
	retainerSQL *sqlstore.SQLiteDatabase

	shutdownOnce sync.Once
	errorHandler func(error)

	optsDBEngine         db.Engine
	optsAllowedDBEngines []db.Engine
	optsPermanent        []options.Option[permanent.Permanent]
}

// New creates a new storage instance in the given directory without opening any databases.
func New(directory string, errorHandler func(error), opts ...options.Option[Storage]) *Storage {
	return options.Apply(&Storage{
		dir:          utils.NewDirectory(directory, true),
		errorHandler: errorHandler,
		optsDBEngine: db.EngineRocksDB,
	}, opts)
}

// Create creates a new storage instance with the named database version in the given directory and opens its
// permanent and SQL databases.
func Create(parentLogger log.Logger, directory string, dbVersion byte, errorHandler func(error), opts ...options.Option[Storage]) (*Storage, error) {
	s := New(directory, errorHandler, opts...)

	dbConfig := database.Config{
		Engine:         s.optsDBEngine,
		AllowedEngines: s.optsAllowedDBEngines,
		Directory:      s.dir.PathWithCreate(permanentDirName),
		Version:        dbVersion,
		PrefixHealth:   []byte{storePrefixHealth},
	}

	permanentStorage, err := permanent.New(dbConfig, errorHandler, s.optsPermanent...)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to create permanent storage")
	}

	retainerSQL, err := sqlstore.NewSQLiteDatabase(lo.Return1(parentLogger.NewChildLogger("sql")), s.dir.PathWithCreate(retainerSQLDirName), retainerSQLFile, errorHandler)
	if err != nil {
		permanentStorage.Shutdown()

		return nil, ierrors.Wrap(err, "failed to create retainer database")
	}

	s.permanent = permanentStorage
	s.retainerSQL = retainerSQL

	return s, nil
}

func (s *Storage) Directory() string {
	return s.dir.Path()
}

func (s *Storage) Settings() *permanent.Settings {
	return s.permanent.Settings()
}

func (s *Storage) Accounts() *permanent.Accounts {
	return s.permanent.Accounts()
}

func (s *Storage) Events() *permanent.Events {
	return s.permanent.Events()
}

func (s *Storage) Transactions() *permanent.Transactions {
	return s.permanent.Transactions()
}

// Batched returns batched mutations that span the whole permanent storage.
func (s *Storage) Batched() (kvstore.BatchedMutations, error) {
	return s.permanent.Batched()
}

// RetainerDatabaseExecFunc returns the exec func of the SQL database used by the event retainer.
func (s *Storage) RetainerDatabaseExecFunc() sqlstore.ExecFunc {
	return s.retainerSQL.ExecDBFunc()
}

// PermanentDatabaseSize returns the size of the underlying permanent database and files.
func (s *Storage) PermanentDatabaseSize() int64 {
	return s.permanent.Size()
}

// RetainerDatabaseSize returns the size of the underlying SQL database.
func (s *Storage) RetainerDatabaseSize() int64 {
	return s.retainerSQL.Size()
}

func (s *Storage) Size() int64 {
	return s.PermanentDatabaseSize() + s.RetainerDatabaseSize()
}

// Shutdown shuts down the storage.
func (s *Storage) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.retainerSQL.Shutdown()
		s.permanent.Shutdown()
	})
}

func (s *Storage) Flush() {
	s.permanent.Flush()
}
