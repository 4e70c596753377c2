package engine

import (
	"time"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
)

// unit is the atomic unit of work of a single transaction. All account changes and events are staged in memory and
// only written to the storage on commit.
type unit struct {
	id            uint64
	engine        *Engine
	transactionID model.TransactionID
	timestamp     time.Time
	signers       map[model.Identity]struct{}

	accounts *shrinkingmap.ShrinkingMap[model.Identity, *model.Account]
	modified map[model.Identity]struct{}
	locked   []model.Identity
	events   []*model.Event

	// abortErr is set if a nested invocation failed. The transaction can not succeed anymore, even if the caller
	// handles the error.
	abortErr error
}

func newUnit(id uint64, e *Engine, transactionID model.TransactionID, timestamp time.Time, signers []model.Identity) *unit {
	u := &unit{
		id:            id,
		engine:        e,
		transactionID: transactionID,
		timestamp:     timestamp,
		signers:       make(map[model.Identity]struct{}, len(signers)),
		accounts:      shrinkingmap.New[model.Identity, *model.Account](),
		modified:      make(map[model.Identity]struct{}),
	}

	for _, signer := range signers {
		u.signers[signer] = struct{}{}
	}

	return u
}

func (u *unit) lock(address model.Identity) error {
	acquired, err := u.engine.locks.Acquire(u.id, address)
	if err != nil {
		return err
	}

	if acquired {
		u.locked = append(u.locked, address)
	}

	return nil
}

// account returns the working copy of the account at the given address.
func (u *unit) account(address model.Identity) (*model.Account, error) {
	if err := u.lock(address); err != nil {
		return nil, err
	}

	if account, exists := u.accounts.Get(address); exists {
		if account == nil {
			return nil, ierrors.Wrapf(ErrAccountNotFound, "account %s", address)
		}

		return account, nil
	}

	account, err := u.engine.storage.Accounts().Load(address)
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			// remember the miss, so that it is stable for the rest of the unit
			u.accounts.Set(address, nil)

			return nil, ierrors.Wrapf(ErrAccountNotFound, "account %s", address)
		}

		return nil, ierrors.Wrapf(err, "failed to load account %s", address)
	}

	u.accounts.Set(address, account)

	return account, nil
}

func (u *unit) createAccount(owner model.Identity, address model.Identity, space int) error {
	if _, err := u.account(address); err == nil {
		return ierrors.Wrapf(ErrAccountAlreadyExists, "account %s", address)
	} else if !ierrors.Is(err, ErrAccountNotFound) {
		return err
	}

	u.accounts.Set(address, model.NewAccount(owner, space))
	u.modified[address] = struct{}{}

	return nil
}

func (u *unit) writeAccount(owner model.Identity, address model.Identity, data []byte) error {
	account, err := u.account(address)
	if err != nil {
		return err
	}

	if account.Owner != owner {
		return ierrors.Wrapf(ErrAccountNotOwned, "account %s is owned by %s", address, account.Owner)
	}

	if len(account.Data) != len(data) {
		return ierrors.Wrapf(ErrAccountSizeMismatch, "account %s: %d != %d", address, len(data), len(account.Data))
	}

	copy(account.Data, data)
	u.modified[address] = struct{}{}

	return nil
}

func (u *unit) emitEvent(programID model.Identity, topic model.Identity, data []byte) error {
	if len(u.events) >= u.engine.optsMaxEventsPerTransaction {
		return ierrors.Wrapf(ErrTooManyEvents, "limit is %d", u.engine.optsMaxEventsPerTransaction)
	}

	u.events = append(u.events, &model.Event{
		TransactionID: u.transactionID,
		ProgramID:     programID,
		Topic:         topic,
		Data:          lo.CopySlice(data),
	})

	return nil
}

func (u *unit) abort(err error) {
	if u.abortErr == nil {
		u.abortErr = err
	}
}

func (u *unit) modifiedAccounts() map[model.Identity]*model.Account {
	accounts := make(map[model.Identity]*model.Account, len(u.modified))
	for address := range u.modified {
		if account, exists := u.accounts.Get(address); exists && account != nil {
			accounts[address] = account
		}
	}

	return accounts
}

// commit writes all staged changes atomically together with the transaction ID. Event indexes are assigned in commit
// order.
func (u *unit) commit() error {
	u.engine.commitMutex.Lock()
	defer u.engine.commitMutex.Unlock()

	settings := u.engine.storage.Settings()

	// a concurrent submission of the same transaction may have been committed in the meantime
	if err := u.engine.checkNotExecuted(u.transactionID); err != nil {
		return err
	}

	batch, err := u.engine.storage.Batched()
	if err != nil {
		return ierrors.Wrap(err, "failed to create batch")
	}

	accounts := u.modifiedAccounts()
	for address, account := range accounts {
		if err = u.engine.storage.Accounts().Stage(batch, address, account); err != nil {
			batch.Cancel()

			return err
		}
	}

	eventCount := settings.EventCount()
	for _, event := range u.events {
		event.Index = eventCount
		eventCount++

		if err = u.engine.storage.Events().Stage(batch, event); err != nil {
			batch.Cancel()

			return err
		}
	}

	if err = u.engine.storage.Transactions().Stage(batch, u.transactionID, settings.TransactionCount()); err != nil {
		batch.Cancel()

		return err
	}

	transactionCount := settings.TransactionCount() + 1
	if err = settings.StageCounters(batch, eventCount, transactionCount); err != nil {
		batch.Cancel()

		return err
	}

	if err = batch.Commit(); err != nil {
		u.engine.storage.Accounts().Invalidate(lo.Keys(accounts)...)

		return ierrors.Wrap(err, "failed to commit batch")
	}

	u.engine.storage.Accounts().Apply(accounts)
	settings.ApplyCounters(eventCount, transactionCount)

	return nil
}

// release frees all account locks held by the unit.
func (u *unit) release() {
	u.engine.locks.Release(u.id, u.locked)
}

