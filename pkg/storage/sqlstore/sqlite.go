package sqlstore

import (
	"path/filepath"

	"gorm.io/gorm"

	"github.com/iotaledger/collection-pricing/pkg/storage/utils"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/ioutils"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/hive.go/sql"
)

// ExecFunc executes a function with exclusive access to the gorm database.
type ExecFunc func(func(*gorm.DB) error) error

// SQLiteDatabase is a wrapper around a gorm database (SQLite) that serializes shutdown against ongoing queries.
type SQLiteDatabase struct {
	logger       log.Logger
	directory    string
	filename     string
	errorHandler func(error)

	accessMutex *syncutils.StarvingMutex
	database    *gorm.DB
	closed      bool
}

// NewSQLiteDatabase creates (or opens) the SQLite database with the given filename in the given directory.
func NewSQLiteDatabase(logger log.Logger, directory string, filename string, errorHandler func(error)) (*SQLiteDatabase, error) {
	baseDir := utils.NewDirectory(directory, true)

	gormDB, _, err := sql.New(
		logger,
		sql.DatabaseParameters{
			Engine:   db.EngineSQLite,
			Path:     baseDir.Path(),
			Filename: filename,
		},
		true,
		[]db.Engine{db.EngineSQLite},
	)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to create/open SQLite database: %s", filepath.Join(baseDir.Path(), filename))
	}

	return &SQLiteDatabase{
		logger:       logger,
		directory:    directory,
		filename:     filename,
		errorHandler: errorHandler,
		accessMutex:  syncutils.NewStarvingMutex(),
		database:     gormDB,
	}, nil
}

// ExecDBFunc returns a function that executes queries while holding a read lock on the database.
func (s *SQLiteDatabase) ExecDBFunc() ExecFunc {
	return func(dbFunc func(*gorm.DB) error) error {
		s.accessMutex.RLock()
		defer s.accessMutex.RUnlock()

		if s.closed {
			return ierrors.Errorf("SQLite database %s is closed", s.filename)
		}

		return dbFunc(s.database)
	}
}

// Size returns the size of the underlying database.
func (s *SQLiteDatabase) Size() int64 {
	folderSize, err := ioutils.FolderSize(s.directory)
	if err != nil {
		s.errorHandler(ierrors.Wrapf(err, "get folder size failed for %s", s.directory))
	}

	return folderSize
}

// Shutdown closes the database.
func (s *SQLiteDatabase) Shutdown() {
	s.accessMutex.Lock()
	defer s.accessMutex.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	sqlDB, err := s.database.DB()
	if err != nil {
		s.errorHandler(ierrors.Wrapf(err, "failed to get SQLite database: %s", filepath.Join(s.directory, s.filename)))

		return
	}

	if err := sqlDB.Close(); err != nil {
		s.errorHandler(ierrors.Wrap(err, "failed to close SQLite database"))
	}
}
