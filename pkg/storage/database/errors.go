package database

import "github.com/iotaledger/hive.go/ierrors"

var (
	ErrDatabaseCorrupted = ierrors.New("database is corrupted")
	ErrUnknownEngine     = ierrors.New("unknown database engine")
)
