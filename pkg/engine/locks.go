package engine

import (
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// lockTable hands out exclusive, non-blocking account locks to units of work. A unit that touches an account held by
// another unit fails immediately with ErrAccountInUse and the transaction can be retried by the caller.
type lockTable struct {
	owners *shrinkingmap.ShrinkingMap[model.Identity, uint64]
	mutex  syncutils.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{
		owners: shrinkingmap.New[model.Identity, uint64](),
	}
}

// Acquire locks the address for the given unit. Re-acquiring an owned lock is a no-op. It returns true if the lock
// was newly acquired.
func (l *lockTable) Acquire(unitID uint64, address model.Identity) (bool, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if owner, exists := l.owners.Get(address); exists {
		if owner != unitID {
			return false, ierrors.Wrapf(ErrAccountInUse, "account %s", address)
		}

		return false, nil
	}

	l.owners.Set(address, unitID)

	return true, nil
}

// Release unlocks all given addresses that are held by the unit.
func (l *lockTable) Release(unitID uint64, addresses []model.Identity) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, address := range addresses {
		if owner, exists := l.owners.Get(address); exists && owner == unitID {
			l.owners.Delete(address)
		}
	}
}

// Size returns the number of currently held locks.
func (l *lockTable) Size() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.owners.Size()
}
