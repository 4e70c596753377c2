package compression_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/collection-pricing/pkg/testsuite"
	"github.com/iotaledger/collection-pricing/pkg/testsuite/mock"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

func createTreeInstruction(t *testing.T, creator, payer, tree *mock.Wallet, maxDepth, maxBufferSize uint32) []*model.Instruction {
	instruction, err := (&compression.CreateTree{
		TreeCreator:   creator.Identity(),
		Payer:         payer.Identity(),
		Tree:          tree.Identity(),
		MaxDepth:      maxDepth,
		MaxBufferSize: maxBufferSize,
		Public:        true,
	}).Instruction(compression.DefaultProgramID)
	require.NoError(t, err)

	return []*model.Instruction{instruction}
}

func TestProgram_CreateTree(t *testing.T) {
	ts := testsuite.NewTestSuite(t)
	ts.RegisterPrograms(compression.New())

	creator, payer, tree := ts.Wallet("creator"), ts.Wallet("payer"), ts.Wallet("tree")

	receipt := ts.RequireExecute(createTreeInstruction(t, creator, payer, tree, 14, 64), creator, payer, tree)

	configAddress, _, err := compression.TreeConfigAddress(tree.Identity(), compression.DefaultProgramID)
	require.NoError(t, err)
	require.Equal(t, configAddress[:], receipt.ReturnData)

	treeAccount := ts.AssertAccountOwner(tree.Identity(), compression.DefaultProgramID)
	require.Len(t, treeAccount.Data, compression.TreeHeaderSize)

	header, _, err := compression.TreeHeaderFromBytes(treeAccount.Data)
	require.NoError(t, err)
	require.EqualValues(t, 14, header.MaxDepth)
	require.EqualValues(t, 64, header.MaxBufferSize)
	require.Equal(t, configAddress, header.Authority)
	require.Equal(t, ts.Now().Unix(), header.CreatedAt)

	configAccount := ts.AssertAccountOwner(configAddress, compression.DefaultProgramID)
	config, _, err := compression.TreeConfigFromBytes(configAccount.Data)
	require.NoError(t, err)
	require.Equal(t, creator.Identity(), config.TreeCreator)
	require.Equal(t, creator.Identity(), config.TreeDelegate)
	require.EqualValues(t, 1<<14, config.TotalMintCapacity)
	require.Zero(t, config.NumMinted)
	require.True(t, config.IsPublic)
}

func TestProgram_CreateTreeInvalidDimensions(t *testing.T) {
	ts := testsuite.NewTestSuite(t)
	ts.RegisterPrograms(compression.New())

	creator, tree := ts.Wallet("creator"), ts.Wallet("tree")

	receipt, err := ts.Execute(createTreeInstruction(t, creator, creator, tree, 14, 100), creator, tree)
	require.ErrorIs(t, err, compression.ErrInvalidTreeDimensions)
	require.False(t, receipt.Committed)

	ts.AssertAccountMissing(tree.Identity())
}

func TestProgram_CreateTreeMissingSigner(t *testing.T) {
	ts := testsuite.NewTestSuite(t)
	ts.RegisterPrograms(compression.New())

	creator, tree := ts.Wallet("creator"), ts.Wallet("tree")

	_, err := ts.Execute(createTreeInstruction(t, creator, creator, tree, 14, 64), creator)
	require.ErrorIs(t, err, compression.ErrMissingSigner)

	ts.AssertAccountMissing(tree.Identity())
}

func TestProgram_CreateTreeTwice(t *testing.T) {
	ts := testsuite.NewTestSuite(t)
	ts.RegisterPrograms(compression.New())

	creator, tree := ts.Wallet("creator"), ts.Wallet("tree")

	ts.RequireExecute(createTreeInstruction(t, creator, creator, tree, 3, 8), creator, tree)

	_, err := ts.Execute(createTreeInstruction(t, creator, creator, tree, 3, 8), creator, tree)
	require.ErrorIs(t, err, engine.ErrAccountAlreadyExists)
}

func TestProgram_UnknownInstruction(t *testing.T) {
	ts := testsuite.NewTestSuite(t)
	ts.RegisterPrograms(compression.New())

	caller := ts.Wallet("caller")

	_, err := ts.Execute([]*model.Instruction{model.NewInstruction(compression.DefaultProgramID, []byte{1, 2, 3, 4, 5, 6, 7, 8})}, caller)
	require.ErrorIs(t, err, compression.ErrUnknownInstruction)

	_, err = ts.Execute([]*model.Instruction{model.NewInstruction(compression.DefaultProgramID, []byte{1, 2})}, caller)
	require.ErrorIs(t, err, compression.ErrInvalidInstruction)
}

func TestValidDimensions(t *testing.T) {
	require.True(t, compression.ValidDimensions(3, 8))
	require.True(t, compression.ValidDimensions(14, 64))
	require.True(t, compression.ValidDimensions(30, 2048))
	require.False(t, compression.ValidDimensions(14, 8))
	require.False(t, compression.ValidDimensions(4, 8))
	require.False(t, compression.ValidDimensions(0, 0))
}

func TestTreeConfigFromBytes(t *testing.T) {
	config := &compression.TreeConfig{
		TreeCreator:       model.Identity{1},
		TreeDelegate:      model.Identity{2},
		TotalMintCapacity: 1 << 20,
		NumMinted:         7,
	}

	configBytes := lo.PanicOnErr(config.Bytes())
	require.Len(t, configBytes, compression.TreeConfigSize)

	decoded, consumed, err := compression.TreeConfigFromBytes(configBytes)
	require.NoError(t, err)
	require.Equal(t, compression.TreeConfigSize, consumed)
	require.Equal(t, config, decoded)

	_, _, err = compression.TreeConfigFromBytes(configBytes[:20])
	require.ErrorIs(t, err, compression.ErrInvalidTreeConfig)

	corrupted := append([]byte{}, configBytes...)
	corrupted[0] ^= 0xff
	_, _, err = compression.TreeConfigFromBytes(corrupted)
	require.True(t, ierrors.Is(err, compression.ErrInvalidTreeConfig))
}
