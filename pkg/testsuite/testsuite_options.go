package testsuite

import (
	"time"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/hive.go/runtime/options"
)

func WithGenesisTime(genesisTime time.Time) options.Option[TestSuite] {
	return func(t *TestSuite) {
		t.optsGenesisTime = genesisTime
	}
}

func WithEngineOptions(opts ...options.Option[engine.Engine]) options.Option[TestSuite] {
	return func(t *TestSuite) {
		t.optsEngineOptions = append(t.optsEngineOptions, opts...)
	}
}

func WithStorageOptions(opts ...options.Option[storage.Storage]) options.Option[TestSuite] {
	return func(t *TestSuite) {
		t.optsStorageOptions = append(t.optsStorageOptions, opts...)
	}
}
