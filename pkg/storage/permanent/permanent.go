package permanent

import (
	"github.com/iotaledger/collection-pricing/pkg/storage/database"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/runtime/ioutils"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

const (
	settingsPrefix byte = iota
	accountsPrefix
	eventsPrefix
	transactionsPrefix
)

// Permanent is the section of the storage that is maintained forever. It holds the ledger's accounts, its event log
// and the IDs of the committed transactions.
type Permanent struct {
	dbConfig     database.Config
	store        *database.DBInstance
	errorHandler func(error)

	settings     *Settings
	accounts     *Accounts
	events       *Events
	transactions *Transactions

	optsAccountCacheSize int
}

// New returns a new permanent storage instance.
func New(dbConfig database.Config, errorHandler func(error), opts ...options.Option[Permanent]) (*Permanent, error) {
	p := options.Apply(&Permanent{
		errorHandler:         errorHandler,
		dbConfig:             dbConfig,
		optsAccountCacheSize: 1024,
	}, opts)

	store, err := database.NewDBInstance(p.dbConfig)
	if err != nil {
		return nil, err
	}

	p.store = store
	p.settings = NewSettings(p.realm(settingsPrefix), newRealmKey(settingsPrefix))
	p.accounts = NewAccounts(p.realm(accountsPrefix), newRealmKey(accountsPrefix), p.optsAccountCacheSize)
	p.events = NewEvents(p.realm(eventsPrefix), newRealmKey(eventsPrefix))
	p.transactions = NewTransactions(p.realm(transactionsPrefix), newRealmKey(transactionsPrefix))

	return p, nil
}

func (p *Permanent) realm(prefix byte) kvstore.KVStore {
	return lo.PanicOnErr(p.store.KVStore().WithExtendedRealm(kvstore.Realm{prefix}))
}

func (p *Permanent) Settings() *Settings {
	return p.settings
}

func (p *Permanent) Accounts() *Accounts {
	return p.accounts
}

func (p *Permanent) Events() *Events {
	return p.events
}

func (p *Permanent) Transactions() *Transactions {
	return p.transactions
}

// Batched returns a new set of batched mutations that spans all realms of the permanent storage. Mutations staged via
// the Stage* methods of the sub-storages are applied atomically on commit.
func (p *Permanent) Batched() (kvstore.BatchedMutations, error) {
	return p.store.KVStore().Batched()
}

// Size returns the size of the permanent storage.
func (p *Permanent) Size() int64 {
	dbSize, err := ioutils.FolderSize(p.dbConfig.Directory)
	if err != nil {
		p.errorHandler(ierrors.Wrapf(err, "dbDirectorySize failed for %s", p.dbConfig.Directory))
		return 0
	}

	return dbSize
}

func (p *Permanent) Shutdown() {
	if err := p.store.Close(); err != nil {
		p.errorHandler(err)
	}
}

func (p *Permanent) Flush() {
	if err := p.store.Flush(); err != nil {
		p.errorHandler(err)
	}
}

// realmKey builds keys that address a realm from the root store (used for batched mutations).
type realmKey func(key []byte) []byte

func newRealmKey(prefix byte) realmKey {
	return func(key []byte) []byte {
		return byteutils.ConcatBytes([]byte{prefix}, key)
	}
}
