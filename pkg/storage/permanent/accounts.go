package permanent

import (
	"github.com/zyedidia/generic/cache"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// Accounts stores the ledger's accounts by address. Recently used accounts are kept decoded in an LRU cache.
type Accounts struct {
	store    kvstore.KVStore
	realmKey realmKey

	cache      *cache.Cache[model.Identity, *model.Account]
	cacheMutex syncutils.Mutex
}

func NewAccounts(store kvstore.KVStore, realmKey realmKey, cacheSize int) *Accounts {
	return &Accounts{
		store:    store,
		realmKey: realmKey,
		cache:    cache.New[model.Identity, *model.Account](max(cacheSize, 1)),
	}
}

// Load returns a copy of the account stored at the given address. It returns kvstore.ErrKeyNotFound if there is no
// such account.
func (a *Accounts) Load(address model.Identity) (*model.Account, error) {
	a.cacheMutex.Lock()
	cached, exists := a.cache.Get(address)
	a.cacheMutex.Unlock()

	if exists {
		return cached.Clone(), nil
	}

	value, err := a.store.Get(address[:])
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ierrors.Wrapf(err, "account %s not found", address)
		}

		return nil, ierrors.Wrapf(err, "failed to load account %s", address)
	}

	account, _, err := model.AccountFromBytes(value)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to decode account %s", address)
	}

	a.cacheMutex.Lock()
	a.cache.Put(address, account)
	a.cacheMutex.Unlock()

	return account.Clone(), nil
}

func (a *Accounts) Has(address model.Identity) (bool, error) {
	return a.store.Has(address[:])
}

// Stage stages the given account into the batch. Call Apply after the batch was committed.
func (a *Accounts) Stage(batch kvstore.BatchedMutations, address model.Identity, account *model.Account) error {
	accountBytes, err := account.Bytes()
	if err != nil {
		return ierrors.Wrapf(err, "failed to encode account %s", address)
	}

	return batch.Set(a.realmKey(address[:]), accountBytes)
}

// Apply updates the cache with accounts that were committed.
func (a *Accounts) Apply(accounts map[model.Identity]*model.Account) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	for address, account := range accounts {
		a.cache.Put(address, account.Clone())
	}
}

// Invalidate drops the given accounts from the cache (e.g. after a failed commit).
func (a *Accounts) Invalidate(addresses ...model.Identity) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	for _, address := range addresses {
		a.cache.Remove(address)
	}
}

// ForEach iterates over all stored accounts.
func (a *Accounts) ForEach(consumer func(address model.Identity, account *model.Account) bool) error {
	var innerErr error

	if err := a.store.Iterate(kvstore.EmptyPrefix, func(key kvstore.Key, value kvstore.Value) bool {
		address, _, err := model.IdentityFromBytes(key)
		if err != nil {
			innerErr = err

			return false
		}

		account, _, err := model.AccountFromBytes(value)
		if err != nil {
			innerErr = ierrors.Wrapf(err, "failed to decode account %s", address)

			return false
		}

		return consumer(address, account)
	}); err != nil {
		return err
	}

	return innerErr
}
