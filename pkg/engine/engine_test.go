package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/testsuite"
	"github.com/iotaledger/hive.go/lo"
)

func newTestSuite(t *testing.T, programs ...engine.Program) *testsuite.TestSuite {
	ts := testsuite.NewTestSuite(t)
	ts.RegisterPrograms(programs...)

	return ts
}

func TestEngine_CommitAndRollback(t *testing.T) {
	program := newTestProgram("alpha")
	ts := newTestSuite(t, program)

	var executed, failed []*engine.Receipt
	ts.Engine.Events.TransactionExecuted.Hook(func(receipt *engine.Receipt) { executed = append(executed, receipt) })
	ts.Engine.Events.TransactionFailed.Hook(func(receipt *engine.Receipt) { failed = append(failed, receipt) })

	wallet := ts.Wallet("account")
	account := wallet.Identity()

	receipt := ts.RequireExecute([]*model.Instruction{
		program.instruction(opCreate, account[:]),
		program.instruction(opWrite, account[:], uint64Bytes(5)),
		program.instruction(opEmit, account[:], []byte("created")),
	}, wallet)
	require.Len(t, receipt.Events, 1)
	require.Equal(t, []model.Identity{account}, receipt.Signers)

	require.Equal(t, uint64Bytes(5), ts.AssertAccountOwner(account, program.ID()).Data)
	ts.AssertEventCount(1)

	receipt, err := ts.Execute([]*model.Instruction{
		program.instruction(opWrite, account[:], uint64Bytes(7)),
		program.instruction(opEmit, account[:], []byte("written")),
		program.instruction(opFail),
	})
	require.ErrorIs(t, err, errTestProgram)
	require.False(t, receipt.Committed)
	require.ErrorIs(t, receipt.Err, errTestProgram)

	require.Equal(t, uint64Bytes(5), ts.AssertAccountOwner(account, program.ID()).Data)
	ts.AssertEventCount(1)

	events := ts.Events(account)
	require.Len(t, events, 1)
	require.Equal(t, []byte("created"), events[0].Data)
	require.Equal(t, receipt.Timestamp, ts.Now())

	require.Len(t, executed, 1)
	require.Len(t, failed, 1)
	require.EqualValues(t, 1, ts.Engine.ExecutedTransactions())
	require.EqualValues(t, 1, ts.Engine.FailedTransactions())
	require.Zero(t, ts.Engine.LockedAccounts())
}

func TestEngine_Simulate(t *testing.T) {
	program := newTestProgram("alpha")
	ts := newTestSuite(t, program)

	wallet := ts.Wallet("account")
	account := wallet.Identity()

	receipt, err := ts.Simulate([]*model.Instruction{
		program.instruction(opCreate, account[:]),
		program.instruction(opEmit, account[:], []byte("simulated")),
	}, wallet)
	require.NoError(t, err)
	require.False(t, receipt.Committed)
	require.Len(t, receipt.Events, 1)

	ts.AssertAccountMissing(account)
	ts.AssertEventCount(0)
	require.Zero(t, ts.Engine.ExecutedTransactions())
}

func TestEngine_RejectsInvalidTransactions(t *testing.T) {
	program := newTestProgram("alpha")
	ts := newTestSuite(t, program)

	wallet := ts.Wallet("account")

	tx := ts.Transaction([]*model.Instruction{program.instruction(opFail)}, wallet)
	tx.Nonce++

	receipt, err := ts.Engine.Execute(context.Background(), tx)
	require.ErrorIs(t, err, model.ErrInvalidSignature)
	require.Nil(t, receipt)

	receipt, err = ts.Execute(nil, wallet)
	require.ErrorIs(t, err, engine.ErrEmptyTransaction)
	require.Nil(t, receipt)

	receipt, err = ts.Execute([]*model.Instruction{model.NewInstruction(model.Identity{0x42}, nil)}, wallet)
	require.ErrorIs(t, err, engine.ErrUnknownProgram)
	require.Nil(t, receipt)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ts.Engine.Execute(ctx, ts.Transaction([]*model.Instruction{program.instruction(opFail)}))
	require.ErrorIs(t, err, context.Canceled)

	require.Zero(t, ts.Engine.FailedTransactions())
}

func TestEngine_RejectsReplayedTransactions(t *testing.T) {
	program := newTestProgram("alpha")
	ts := newTestSuite(t, program)

	wallet := ts.Wallet("account")
	account := wallet.Identity()

	ts.RequireExecute([]*model.Instruction{program.instruction(opCreate, account[:])}, wallet)

	first := ts.Transaction([]*model.Instruction{program.instruction(opWrite, account[:], uint64Bytes(5))})
	receipt, err := ts.Engine.Execute(context.Background(), first)
	require.NoError(t, err)
	require.True(t, receipt.Committed)

	ts.RequireExecute([]*model.Instruction{program.instruction(opWrite, account[:], uint64Bytes(7))})

	receipt, err = ts.Engine.Execute(context.Background(), first)
	require.ErrorIs(t, err, engine.ErrTransactionAlreadyExecuted)
	require.Nil(t, receipt)
	require.Equal(t, uint64Bytes(7), ts.AssertAccountOwner(account, program.ID()).Data)

	executed, err := ts.Storage.Transactions().Has(lo.PanicOnErr(first.ID()))
	require.NoError(t, err)
	require.True(t, executed)

	// simulations do not commit, so they are not affected
	receipt, err = ts.Engine.Simulate(context.Background(), first)
	require.NoError(t, err)
	require.False(t, receipt.Committed)

	// failed transactions are not recorded and can be submitted again
	failed := ts.Transaction([]*model.Instruction{program.instruction(opFail)})
	for range 2 {
		receipt, err = ts.Engine.Execute(context.Background(), failed)
		require.ErrorIs(t, err, errTestProgram)
		require.NotNil(t, receipt)
	}

	require.EqualValues(t, 3, ts.Engine.ExecutedTransactions())
	require.EqualValues(t, 2, ts.Engine.FailedTransactions())
	require.EqualValues(t, 3, ts.Storage.Settings().TransactionCount())
}

func TestEngine_AccountRules(t *testing.T) {
	alpha, beta := newTestProgram("alpha"), newTestProgram("beta")
	ts := newTestSuite(t, alpha, beta)

	wallet := ts.Wallet("account")
	account := wallet.Identity()

	// the address of a new account has to sign
	_, err := ts.Execute([]*model.Instruction{alpha.instruction(opCreate, account[:])})
	require.ErrorIs(t, err, engine.ErrMissingSignature)

	ts.RequireExecute([]*model.Instruction{alpha.instruction(opCreate, account[:])}, wallet)

	_, err = ts.Execute([]*model.Instruction{alpha.instruction(opCreate, account[:])}, wallet)
	require.ErrorIs(t, err, engine.ErrAccountAlreadyExists)

	_, err = ts.Execute([]*model.Instruction{beta.instruction(opWrite, account[:], uint64Bytes(1))})
	require.ErrorIs(t, err, engine.ErrAccountNotOwned)

	_, err = ts.Execute([]*model.Instruction{alpha.instruction(opWrite, account[:], []byte{1})})
	require.ErrorIs(t, err, engine.ErrAccountSizeMismatch)

	missing := ts.Wallet("missing").Identity()
	_, err = ts.Execute([]*model.Instruction{alpha.instruction(opWrite, missing[:], uint64Bytes(1))})
	require.ErrorIs(t, err, engine.ErrAccountNotFound)
}

func TestEngine_SignAsAndInvoke(t *testing.T) {
	alpha, beta := newTestProgram("alpha"), newTestProgram("beta")
	ts := newTestSuite(t, alpha, beta)

	vault, _ := alpha.vault()
	caller := ts.Wallet("caller")

	// a program can create accounts at its own derived addresses
	ts.RequireExecute([]*model.Instruction{alpha.instruction(opCreateVault)}, caller)
	ts.AssertAccountOwner(vault, alpha.ID())

	// the proof extends the signature of the derived address to the callee
	requireSigner := append([]byte{opRequireSigner}, vault[:]...)
	ts.RequireExecute([]*model.Instruction{alpha.instruction(opInvokeWithVault, beta.id[:], requireSigner)}, caller)

	// without the proof the callee does not see the derived address as signer
	_, err := ts.Execute([]*model.Instruction{alpha.instruction(opInvoke, beta.id[:], requireSigner)}, caller)
	require.ErrorIs(t, err, engine.ErrMissingSignature)

	// return data of the callee is passed to the caller
	callerID := caller.Identity()
	receipt, err := ts.Simulate([]*model.Instruction{alpha.instruction(opInvoke, beta.id[:], append([]byte{opRequireSigner}, callerID[:]...))}, caller)
	require.NoError(t, err)
	require.Equal(t, []byte("signed"), receipt.ReturnData)
}

func TestEngine_ProofsAreBoundToTransaction(t *testing.T) {
	alpha, beta := newTestProgram("alpha"), newTestProgram("beta")
	ts := newTestSuite(t, alpha, beta)

	vault, _ := alpha.vault()
	caller := ts.Wallet("caller")

	ts.RequireExecute([]*model.Instruction{alpha.instruction(opStashVaultProof)}, caller)

	_, err := ts.Execute([]*model.Instruction{alpha.instruction(opInvokeWithStashedProof, beta.id[:], append([]byte{opRequireSigner}, vault[:]...))}, caller)
	require.ErrorIs(t, err, engine.ErrInvalidAuthorityProof)

	// beta can not pass on a proof that was issued to alpha in the same transaction
	beta.stash = alpha.stash

	_, err = ts.Execute([]*model.Instruction{
		alpha.instruction(opStashVaultProof),
		beta.instruction(opInvokeWithStashedProof, alpha.id[:], []byte{opFail}),
	}, caller)
	require.ErrorIs(t, err, engine.ErrInvalidAuthorityProof)
}

func TestEngine_NestedFailureAbortsTransaction(t *testing.T) {
	alpha, beta := newTestProgram("alpha"), newTestProgram("beta")
	ts := newTestSuite(t, alpha, beta)

	wallet := ts.Wallet("account")
	account := wallet.Identity()

	receipt, err := ts.Execute([]*model.Instruction{
		alpha.instruction(opCreate, account[:]),
		alpha.instruction(opInvokeAndIgnore, beta.id[:], []byte{opFail}),
	}, wallet)
	require.ErrorIs(t, err, engine.ErrTransactionAborted)
	require.ErrorIs(t, err, errTestProgram)
	require.False(t, receipt.Committed)

	ts.AssertAccountMissing(account)
}

func TestEngine_MaxCallDepth(t *testing.T) {
	alpha := newTestProgram("alpha")
	ts := testsuite.NewTestSuite(t, testsuite.WithEngineOptions(engine.WithMaxCallDepth(2)))
	ts.RegisterPrograms(alpha)

	nested := func(depth int) []byte {
		data := []byte{opFail}
		for range depth {
			data = append(append([]byte{opInvoke}, alpha.id[:]...), data...)
		}

		return data
	}

	_, err := ts.Execute([]*model.Instruction{model.NewInstruction(alpha.id, nested(2))})
	require.ErrorIs(t, err, errTestProgram)

	_, err = ts.Execute([]*model.Instruction{model.NewInstruction(alpha.id, nested(3))})
	require.ErrorIs(t, err, engine.ErrCallDepthExceeded)
}

func TestEngine_MaxEvents(t *testing.T) {
	alpha := newTestProgram("alpha")
	ts := testsuite.NewTestSuite(t, testsuite.WithEngineOptions(engine.WithMaxEventsPerTransaction(1)))
	ts.RegisterPrograms(alpha)

	topic := model.Identity{1}

	_, err := ts.Execute([]*model.Instruction{
		alpha.instruction(opEmit, topic[:], []byte("first")),
		alpha.instruction(opEmit, topic[:], []byte("second")),
	})
	require.ErrorIs(t, err, engine.ErrTooManyEvents)
	ts.AssertEventCount(0)
}

func TestEngine_ConflictingTransactions(t *testing.T) {
	alpha := newTestProgram("alpha")
	ts := newTestSuite(t, alpha)

	wallet := ts.Wallet("account")
	account := wallet.Identity()

	ts.RequireExecute([]*model.Instruction{alpha.instruction(opCreate, account[:])}, wallet)

	var wg sync.WaitGroup
	wg.Add(1)

	var firstErr error
	go func() {
		defer wg.Done()

		_, firstErr = ts.Execute([]*model.Instruction{alpha.instruction(opTouchAndWait, account[:])})
	}()

	<-alpha.entered
	require.Equal(t, 1, ts.Engine.LockedAccounts())

	_, err := ts.Execute([]*model.Instruction{alpha.instruction(opWrite, account[:], uint64Bytes(9))})
	require.ErrorIs(t, err, engine.ErrAccountInUse)

	close(alpha.release)
	wg.Wait()

	require.NoError(t, firstErr)
	require.Zero(t, ts.Engine.LockedAccounts())

	// the account is free again after the first transaction finished
	ts.RequireExecute([]*model.Instruction{alpha.instruction(opWrite, account[:], uint64Bytes(9))})
	require.Equal(t, uint64Bytes(9), ts.AssertAccountOwner(account, alpha.ID()).Data)
}

func TestEngine_RegisterProgram(t *testing.T) {
	alpha := newTestProgram("alpha")
	ts := newTestSuite(t, alpha)

	require.ErrorIs(t, ts.Engine.RegisterProgram(alpha), engine.ErrProgramAlreadyExists)

	program, exists := ts.Engine.Program(alpha.ID())
	require.True(t, exists)
	require.Equal(t, alpha, program)
	require.Len(t, ts.Engine.Programs(), 1)

	require.Equal(t, map[string]model.Identity{"alpha": alpha.ID()}, ts.Storage.Settings().Programs())
}

func TestEngine_Shutdown(t *testing.T) {
	alpha := newTestProgram("alpha")
	ts := newTestSuite(t, alpha)

	require.False(t, ts.Engine.IsShutdown())
	ts.Engine.Shutdown()
	require.True(t, ts.Engine.IsShutdown())

	_, err := ts.Execute([]*model.Instruction{alpha.instruction(opFail)})
	require.ErrorIs(t, err, engine.ErrEngineShutdown)
}
