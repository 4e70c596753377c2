package testsuite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/collection-pricing/pkg/testsuite/mock"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// TestSuite runs an engine on an in-memory storage and executes signed transactions against it.
type TestSuite struct {
	Testing *testing.T
	Storage *storage.Storage
	Engine  *engine.Engine

	wallets *shrinkingmap.ShrinkingMap[string, *mock.Wallet]
	now     time.Time
	nonce   uint64
	mutex   syncutils.RWMutex

	optsGenesisTime    time.Time
	optsEngineOptions  []options.Option[engine.Engine]
	optsStorageOptions []options.Option[storage.Storage]
}

func NewTestSuite(testingT *testing.T, opts ...options.Option[TestSuite]) *TestSuite {
	return options.Apply(&TestSuite{
		Testing:         testingT,
		wallets:         shrinkingmap.New[string, *mock.Wallet](),
		optsGenesisTime: time.Unix(1_700_000_000, 0),
	}, opts, func(t *TestSuite) {
		t.now = t.optsGenesisTime

		logger := log.NewLogger()

		storageOptions := append([]options.Option[storage.Storage]{storage.WithDBEngine(db.EngineMapDB)}, t.optsStorageOptions...)
		t.Storage = lo.PanicOnErr(storage.Create(logger, testingT.TempDir(), storage.DatabaseVersion, func(err error) {
			testingT.Errorf("storage error: %s", err)
		}, storageOptions...))

		engineOptions := append([]options.Option[engine.Engine]{engine.WithClock(t.Now)}, t.optsEngineOptions...)
		t.Engine = engine.New(lo.Return1(logger.NewChildLogger("Engine")), t.Storage, engineOptions...)

		testingT.Cleanup(t.Shutdown)
	})
}

// Now returns the current time of the suite's clock.
func (t *TestSuite) Now() time.Time {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.now
}

// AdvanceTime moves the suite's clock forward.
func (t *TestSuite) AdvanceTime(d time.Duration) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.now = t.now.Add(d)
}

// Wallet returns the wallet with the given alias and creates it on first use.
func (t *TestSuite) Wallet(alias string) *mock.Wallet {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	wallet, _ := t.wallets.GetOrCreate(alias, func() *mock.Wallet {
		return mock.NewWallet(fmt.Sprintf("%s/%s", t.Testing.Name(), alias))
	})

	return wallet
}

// RegisterPrograms deploys the given programs on the engine.
func (t *TestSuite) RegisterPrograms(programs ...engine.Program) {
	for _, program := range programs {
		require.NoError(t.Testing, t.Engine.RegisterProgram(program))
	}
}

// Transaction builds a transaction with a fresh nonce that is signed by all given wallets.
func (t *TestSuite) Transaction(instructions []*model.Instruction, signers ...*mock.Wallet) *model.Transaction {
	t.mutex.Lock()
	t.nonce++
	tx := model.NewTransaction(t.nonce, instructions...)
	t.mutex.Unlock()

	for _, signer := range signers {
		require.NoError(t.Testing, signer.Sign(tx))
	}

	return tx
}

// Execute signs and executes a transaction with the given instructions.
func (t *TestSuite) Execute(instructions []*model.Instruction, signers ...*mock.Wallet) (*engine.Receipt, error) {
	return t.Engine.Execute(context.Background(), t.Transaction(instructions, signers...))
}

// RequireExecute executes the instructions and fails the test if the transaction was not committed.
func (t *TestSuite) RequireExecute(instructions []*model.Instruction, signers ...*mock.Wallet) *engine.Receipt {
	receipt, err := t.Execute(instructions, signers...)
	require.NoError(t.Testing, err)
	require.True(t.Testing, receipt.Committed)

	return receipt
}

// Simulate executes the instructions without committing them.
func (t *TestSuite) Simulate(instructions []*model.Instruction, signers ...*mock.Wallet) (*engine.Receipt, error) {
	return t.Engine.Simulate(context.Background(), t.Transaction(instructions, signers...))
}

// Account loads a committed account from the storage.
func (t *TestSuite) Account(address model.Identity) (*model.Account, bool) {
	account, err := t.Storage.Accounts().Load(address)
	if err != nil {
		return nil, false
	}

	return account, true
}

// AssertAccountOwner checks that the committed account at the address exists and belongs to the owner.
func (t *TestSuite) AssertAccountOwner(address model.Identity, owner model.Identity) *model.Account {
	account, exists := t.Account(address)
	require.Truef(t.Testing, exists, "account %s does not exist", address)
	require.Equal(t.Testing, owner, account.Owner)

	return account
}

// AssertAccountMissing checks that no account was committed at the address.
func (t *TestSuite) AssertAccountMissing(address model.Identity) {
	_, exists := t.Account(address)
	require.Falsef(t.Testing, exists, "account %s should not exist", address)
}

// AssertEventCount checks the number of events in the ledger's event log.
func (t *TestSuite) AssertEventCount(expected uint64) {
	require.Equal(t.Testing, expected, t.Storage.Settings().EventCount())
}

// Events returns all committed events with the given topic in commit order.
func (t *TestSuite) Events(topic model.Identity) []*model.Event {
	events := make([]*model.Event, 0)
	require.NoError(t.Testing, t.Storage.Events().ForEach(0, func(event *model.Event) bool {
		if event.Topic == topic {
			events = append(events, event)
		}

		return true
	}))

	return events
}

func (t *TestSuite) Shutdown() {
	t.Engine.Shutdown()
	t.Storage.Shutdown()
}
