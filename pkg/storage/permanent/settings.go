package permanent

import (
	"encoding/binary"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
	"github.com/iotaledger/hive.go/stringify"
)

const (
	programKey byte = iota
	eventCountKey
	transactionCountKey
	nodeSeedKey
)

var (
	// ErrProgramIDMismatch is returned if a program is registered under a different identity than before.
	ErrProgramIDMismatch = ierrors.New("program identity does not match the stored identity")
	// ErrNodeSeedNotFound is returned if no node seed was stored yet.
	ErrNodeSeedNotFound = ierrors.New("node seed not found")
)

// Settings holds node wide bookkeeping: the identities of the deployed programs and the ledger counters.
type Settings struct {
	mutex    syncutils.RWMutex
	store    kvstore.KVStore
	realmKey realmKey

	eventCount       uint64
	transactionCount uint64
}

func NewSettings(store kvstore.KVStore, realmKey realmKey) *Settings {
	s := &Settings{
		store:    store,
		realmKey: realmKey,
	}

	s.eventCount = s.loadCounter(eventCountKey)
	s.transactionCount = s.loadCounter(transactionCountKey)

	return s
}

// RegisterProgram stores the identity of the named program. Once stored, a program can not be registered under a
// different identity, because all records it owns are bound to its identity.
func (s *Settings) RegisterProgram(name string, programID model.Identity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := byteutils.ConcatBytes([]byte{programKey}, []byte(name))

	stored, err := s.store.Get(key)
	if err != nil {
		if !ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return ierrors.Wrapf(err, "failed to load identity of program %s", name)
		}

		return s.store.Set(key, programID[:])
	}

	storedID, _, err := model.IdentityFromBytes(stored)
	if err != nil {
		return ierrors.Wrapf(err, "failed to parse stored identity of program %s", name)
	}

	if storedID != programID {
		return ierrors.Wrapf(ErrProgramIDMismatch, "program %s: configured %s, stored %s", name, programID, storedID)
	}

	return nil
}

// Programs returns all registered programs by name.
func (s *Settings) Programs() map[string]model.Identity {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	programs := make(map[string]model.Identity)
	if err := s.store.Iterate([]byte{programKey}, func(key kvstore.Key, value kvstore.Value) bool {
		if id, _, err := model.IdentityFromBytes(value); err == nil {
			programs[string(key[1:])] = id
		}

		return true
	}); err != nil {
		panic(err)
	}

	return programs
}

// NodeSeed returns the stored seed of the node's private key.
func (s *Settings) NodeSeed() ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	seed, err := s.store.Get([]byte{nodeSeedKey})
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrNodeSeedNotFound
		}

		return nil, ierrors.Wrap(err, "failed to load node seed")
	}

	return seed, nil
}

// StoreNodeSeed stores the seed of the node's private key, replacing a previously stored one.
func (s *Settings) StoreNodeSeed(seed []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.store.Set([]byte{nodeSeedKey}, seed); err != nil {
		return ierrors.Wrap(err, "failed to store node seed")
	}

	return nil
}

func (s *Settings) EventCount() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.eventCount
}

func (s *Settings) TransactionCount() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.transactionCount
}

// StageCounters stages the updated ledger counters into the given batch. The in-memory values are only updated once
// the batch was committed (see ApplyCounters).
func (s *Settings) StageCounters(batch kvstore.BatchedMutations, eventCount uint64, transactionCount uint64) error {
	if err := batch.Set(s.realmKey([]byte{eventCountKey}), counterBytes(eventCount)); err != nil {
		return ierrors.Wrap(err, "failed to stage event count")
	}

	if err := batch.Set(s.realmKey([]byte{transactionCountKey}), counterBytes(transactionCount)); err != nil {
		return ierrors.Wrap(err, "failed to stage transaction count")
	}

	return nil
}

// ApplyCounters updates the in-memory ledger counters after a successful commit.
func (s *Settings) ApplyCounters(eventCount uint64, transactionCount uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.eventCount = eventCount
	s.transactionCount = transactionCount
}

func (s *Settings) loadCounter(key byte) uint64 {
	value, err := s.store.Get([]byte{key})
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return 0
		}

		panic(err)
	}

	if len(value) != 8 {
		panic(ierrors.Errorf("invalid counter length for key %d: %d", key, len(value)))
	}

	return binary.LittleEndian.Uint64(value)
}

func (s *Settings) String() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return stringify.Struct("Settings",
		stringify.NewStructField("EventCount", s.eventCount),
		stringify.NewStructField("TransactionCount", s.transactionCount),
	)
}

func counterBytes(value uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, value)
}
