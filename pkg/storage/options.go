package storage

import (
	"github.com/iotaledger/collection-pricing/pkg/storage/permanent"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/runtime/options"
)

func WithDBEngine(optsDBEngine db.Engine) options.Option[Storage] {
	return func(s *Storage) {
		s.optsDBEngine = optsDBEngine
	}
}

func WithAllowedDBEngines(optsAllowedDBEngines []db.Engine) options.Option[Storage] {
	return func(s *Storage) {
		s.optsAllowedDBEngines = optsAllowedDBEngines
	}
}

func WithPermanentOptions(opts ...options.Option[permanent.Permanent]) options.Option[Storage] {
	return func(s *Storage) {
		s.optsPermanent = append(s.optsPermanent, opts...)
	}
}
