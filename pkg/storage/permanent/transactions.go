package permanent

import (
	"encoding/binary"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
)

// Transactions remembers the IDs of all committed transactions together with their position in the ledger, so that a
// transaction can not be committed twice.
type Transactions struct {
	store    kvstore.KVStore
	realmKey realmKey
}

func NewTransactions(store kvstore.KVStore, realmKey realmKey) *Transactions {
	return &Transactions{
		store:    store,
		realmKey: realmKey,
	}
}

// Stage stages the ID of a committed transaction into the batch.
func (t *Transactions) Stage(batch kvstore.BatchedMutations, transactionID model.TransactionID, index uint64) error {
	return batch.Set(t.realmKey(transactionID[:]), binary.BigEndian.AppendUint64(nil, index))
}

// Has returns true if a transaction with the given ID was committed.
func (t *Transactions) Has(transactionID model.TransactionID) (bool, error) {
	return t.store.Has(transactionID[:])
}

// Index returns the position of the committed transaction in the ledger.
func (t *Transactions) Index(transactionID model.TransactionID) (uint64, error) {
	value, err := t.store.Get(transactionID[:])
	if err != nil {
		return 0, ierrors.Wrapf(err, "failed to load transaction %s", transactionID)
	}

	if len(value) != 8 {
		return 0, ierrors.Errorf("invalid index length %d of transaction %s", len(value), transactionID)
	}

	return binary.BigEndian.Uint64(value), nil
}
