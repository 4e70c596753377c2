package pricemanager_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/testsuite"
	"github.com/iotaledger/collection-pricing/pkg/testsuite/mock"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/runtime/options"
)

type TestFramework struct {
	*testsuite.TestSuite

	Program *pricemanager.Program
	Mint    model.Identity

	test *testing.T
}

func NewTestFramework(test *testing.T, opts ...options.Option[pricemanager.Program]) *TestFramework {
	tf := &TestFramework{
		TestSuite: testsuite.NewTestSuite(test),
		Program:   pricemanager.New(opts...),
		Mint:      model.Identity{0xaa},
		test:      test,
	}

	tf.RegisterPrograms(tf.Program, compression.New())

	return tf
}

func (t *TestFramework) Collection(alias string) model.Identity {
	return t.Wallet("collection/" + alias).Identity()
}

func (t *TestFramework) instruction(instruction pricemanager.Instruction) []*model.Instruction {
	return []*model.Instruction{lo.PanicOnErr(pricemanager.NewInstruction(t.Program.ID(), instruction))}
}

func (t *TestFramework) Create(owner *mock.Wallet, collection model.Identity, size uint16, prices ...uint64) (*engine.Receipt, error) {
	return t.Execute(t.instruction(&pricemanager.Create{
		Owner:       owner.Identity(),
		Collection:  collection,
		PaymentMint: t.Mint,
		Size:        size,
		Prices:      prices,
	}), owner)
}

func (t *TestFramework) RequireCreate(owner *mock.Wallet, collection model.Identity, prices ...uint64) {
	receipt, err := t.Create(owner, collection, uint16(len(prices)), prices...)
	require.NoError(t.test, err)
	require.True(t.test, receipt.Committed)
}

func (t *TestFramework) Read(collection model.Identity) (*pricemanager.ReadResult, error) {
	receipt, err := t.Simulate(t.instruction(&pricemanager.Read{Collection: collection}))
	if err != nil {
		return nil, err
	}

	return pricemanager.ReadResultFromBytes(receipt.ReturnData)
}

func (t *TestFramework) Update(signer *mock.Wallet, collection model.Identity, prices ...uint64) (*engine.Receipt, error) {
	return t.Execute(t.instruction(&pricemanager.Update{
		Collection: collection,
		Prices:     prices,
	}), signer)
}

func (t *TestFramework) CreateTree(signer *mock.Wallet, collection model.Identity, maxDepth uint32, maxBufferSize uint32) (*engine.Receipt, error) {
	return t.Execute(t.instruction(&pricemanager.CreateTree{
		Collection:    collection,
		MaxDepth:      maxDepth,
		MaxBufferSize: maxBufferSize,
	}), signer)
}

func (t *TestFramework) RotateTree(signer *mock.Wallet, collection model.Identity, maxDepth uint32, maxBufferSize uint32) (*engine.Receipt, error) {
	return t.Execute(t.instruction(&pricemanager.RotateTree{
		Collection:    collection,
		MaxDepth:      maxDepth,
		MaxBufferSize: maxBufferSize,
	}), signer)
}

func (t *TestFramework) VerifyTree(collection model.Identity, treeAddress model.Identity) error {
	_, err := t.Simulate(t.instruction(&pricemanager.VerifyTree{
		Collection:  collection,
		TreeAddress: treeAddress,
	}))

	return err
}

func (t *TestFramework) RegistryAddress(collection model.Identity) model.Identity {
	address, _, err := pricemanager.RegistryAddress(collection, t.Program.ID())
	require.NoError(t.test, err)

	return address
}

// Registry returns the committed registry of the collection.
func (t *TestFramework) Registry(collection model.Identity) *pricemanager.Registry {
	account := t.AssertAccountOwner(t.RegistryAddress(collection), t.Program.ID())

	registry, _, err := pricemanager.RegistryFromBytes(account.Data)
	require.NoError(t.test, err)

	return registry
}

func (t *TestFramework) AssertPrices(collection model.Identity, expected ...uint64) {
	result, err := t.Read(collection)
	require.NoError(t.test, err)
	require.EqualValues(t.test, len(expected), result.Size)
	require.Equal(t.test, t.Mint, result.PaymentMint)
	require.Equal(t.test, expected, result.Prices)
}

// AssertTreeIndex checks that the index counter of the tree exists and holds the expected value.
func (t *TestFramework) AssertTreeIndex(treeAddress model.Identity, expected uint64) {
	address, _, err := pricemanager.TreeIndexAddress(treeAddress, t.Program.ID())
	require.NoError(t.test, err)

	account := t.AssertAccountOwner(address, t.Program.ID())
	require.Len(t.test, account.Data, pricemanager.TreeIndexCounterSize)

	counter, _, err := pricemanager.TreeIndexCounterFromBytes(account.Data)
	require.NoError(t.test, err)
	require.Equal(t.test, expected, counter.CurrentIndex)
}

// OverwriteRegistry replaces the committed registry of a collection, bypassing the program.
func (t *TestFramework) OverwriteRegistry(collection model.Identity, registry *pricemanager.Registry) {
	address := t.RegistryAddress(collection)
	account := &model.Account{
		Owner: t.Program.ID(),
		Data:  lo.PanicOnErr(registry.Bytes()),
	}

	batch, err := t.Storage.Batched()
	require.NoError(t.test, err)
	require.NoError(t.test, t.Storage.Accounts().Stage(batch, address, account))
	require.NoError(t.test, batch.Commit())

	t.Storage.Accounts().Apply(map[model.Identity]*model.Account{address: account})
}

// CollectionEvents decodes all committed events of the collection.
func (t *TestFramework) CollectionEvents(collection model.Identity) []*pricemanager.Event {
	return lo.Map(t.Events(collection), func(event *model.Event) *pricemanager.Event {
		require.Equal(t.test, t.Program.ID(), event.ProgramID)

		return lo.PanicOnErr(pricemanager.EventFromBytes(event.Data))
	})
}

func (t *TestFramework) AssertEventKinds(collection model.Identity, expected ...pricemanager.EventKind) {
	require.Equal(t.test, expected, lo.Map(t.CollectionEvents(collection), func(event *pricemanager.Event) pricemanager.EventKind {
		return event.Kind
	}))
}
