package engine

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

const (
	DefaultMaxCallDepth            = 4
	DefaultMaxEventsPerTransaction = 64
	DefaultMaxAccountSize          = 10 * 1024 * 1024
)

// Engine executes transactions against the accounts in the storage. Transactions that touch disjoint accounts can be
// executed concurrently, all effects of a transaction are committed atomically or not at all.
type Engine struct {
	Events *Events

	storage *storage.Storage

	programs       *shrinkingmap.ShrinkingMap[model.Identity, Program]
	programLoggers *shrinkingmap.ShrinkingMap[model.Identity, log.Logger]
	programsMutex  syncutils.RWMutex

	locks       *lockTable
	commitMutex syncutils.Mutex

	unitCounter     atomic.Uint64
	executedCounter atomic.Uint64
	failedCounter   atomic.Uint64
	shutdown        atomic.Bool

	optsClock                   func() time.Time
	optsMaxCallDepth            int
	optsMaxEventsPerTransaction int
	optsMaxAccountSize          int

	log.Logger
}

// New creates a new Engine that works on the given storage.
func New(logger log.Logger, s *storage.Storage, opts ...options.Option[Engine]) *Engine {
	return options.Apply(&Engine{
		Events:         NewEvents(),
		storage:        s,
		programs:       shrinkingmap.New[model.Identity, Program](),
		programLoggers: shrinkingmap.New[model.Identity, log.Logger](),
		locks:          newLockTable(),
		Logger:         logger,

		optsClock:                   time.Now,
		optsMaxCallDepth:            DefaultMaxCallDepth,
		optsMaxEventsPerTransaction: DefaultMaxEventsPerTransaction,
		optsMaxAccountSize:          DefaultMaxAccountSize,
	}, opts)
}

// RegisterProgram deploys a program. The name to ID mapping is persisted, so that a program can not be redeployed
// under a different ID.
func (e *Engine) RegisterProgram(program Program) error {
	e.programsMutex.Lock()
	defer e.programsMutex.Unlock()

	if _, exists := e.programs.Get(program.ID()); exists {
		return ierrors.Wrapf(ErrProgramAlreadyExists, "program %s (%s)", program.Name(), program.ID())
	}

	if err := e.storage.Settings().RegisterProgram(program.Name(), program.ID()); err != nil {
		return ierrors.Wrapf(err, "failed to register program %s", program.Name())
	}

	e.programs.Set(program.ID(), program)
	e.programLoggers.Set(program.ID(), lo.Return1(e.Logger.NewChildLogger(program.Name())))

	e.LogInfof("registered program %s with ID %s", program.Name(), program.ID())

	return nil
}

// Program returns the program deployed under the given ID.
func (e *Engine) Program(programID model.Identity) (Program, bool) {
	e.programsMutex.RLock()
	defer e.programsMutex.RUnlock()

	return e.programs.Get(programID)
}

// Programs returns all deployed programs.
func (e *Engine) Programs() []Program {
	e.programsMutex.RLock()
	defer e.programsMutex.RUnlock()

	return e.programs.Values()
}

func (e *Engine) programLogger(program Program) log.Logger {
	e.programsMutex.RLock()
	defer e.programsMutex.RUnlock()

	if logger, exists := e.programLoggers.Get(program.ID()); exists {
		return logger
	}

	return e.Logger
}

// Execute executes the transaction and commits its effects. Transactions that can not be authenticated, that address
// unknown programs or that were already committed are rejected without a receipt. If the execution fails, the returned receipt describes the failure and nothing is committed.
func (e *Engine) Execute(ctx context.Context, tx *model.Transaction) (*Receipt, error) {
	receipt, err := e.run(ctx, tx, true)
	if receipt == nil {
		return nil, err
	}

	if receipt.Committed {
		e.executedCounter.Inc()
		e.Events.TransactionExecuted.Trigger(receipt)
	} else {
		e.failedCounter.Inc()
		e.Events.TransactionFailed.Trigger(receipt)
	}

	return receipt, err
}

// Simulate executes the transaction without committing its effects.
func (e *Engine) Simulate(ctx context.Context, tx *model.Transaction) (*Receipt, error) {
	return e.run(ctx, tx, false)
}

func (e *Engine) run(ctx context.Context, tx *model.Transaction, commit bool) (*Receipt, error) {
	if e.shutdown.Load() {
		return nil, ErrEngineShutdown
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(tx.Instructions) == 0 {
		return nil, ErrEmptyTransaction
	}

	transactionID, err := tx.ID()
	if err != nil {
		return nil, ierrors.Join(model.ErrInvalidTransaction, err)
	}

	signers, err := tx.VerifySignatures()
	if err != nil {
		return nil, err
	}

	if commit {
		if err = e.checkNotExecuted(transactionID); err != nil {
			return nil, err
		}
	}

	if err = e.checkPrograms(tx.Instructions); err != nil {
		return nil, err
	}

	u := newUnit(e.unitCounter.Inc(), e, transactionID, e.optsClock(), signers)
	defer u.release()

	receipt := &Receipt{
		TransactionID: transactionID,
		Timestamp:     u.timestamp,
		Signers:       signers,
	}

	if receipt.ReturnData, err = e.executeInstructions(ctx, u, tx.Instructions); err != nil {
		return e.failed(receipt, u, err)
	}

	receipt.Events = u.events

	if !commit {
		return receipt, nil
	}

	if err = u.commit(); err != nil {
		if ierrors.Is(err, ErrTransactionAlreadyExecuted) {
			return nil, err
		}

		e.Events.Error.Trigger(ierrors.Wrapf(err, "failed to commit transaction %s", transactionID))

		return e.failed(receipt, u, err)
	}

	receipt.Committed = true

	return receipt, nil
}

func (e *Engine) checkNotExecuted(transactionID model.TransactionID) error {
	executed, err := e.storage.Transactions().Has(transactionID)
	if err != nil {
		return ierrors.Wrapf(err, "failed to check transaction %s", transactionID)
	}

	if executed {
		return ierrors.Wrapf(ErrTransactionAlreadyExecuted, "transaction %s", transactionID)
	}

	return nil
}

// checkPrograms rejects transactions that address programs which are not deployed.
func (e *Engine) checkPrograms(instructions []*model.Instruction) error {
	for i, instruction := range instructions {
		if _, exists := e.Program(instruction.ProgramID); !exists {
			return ierrors.Wrapf(ErrUnknownProgram, "instruction %d: program %s", i, instruction.ProgramID)
		}
	}

	return nil
}

func (e *Engine) executeInstructions(ctx context.Context, u *unit, instructions []*model.Instruction) (returnData []byte, err error) {
	for i, instruction := range instructions {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		program, exists := e.Program(instruction.ProgramID)
		if !exists {
			return nil, ierrors.Wrapf(ErrUnknownProgram, "instruction %d: program %s", i, instruction.ProgramID)
		}

		f := newFrame(u, program, 0, nil)
		if err = f.execute(instruction.Data); err != nil {
			return nil, ierrors.Wrapf(err, "instruction %d (%s) failed", i, program.Name())
		}

		// a program may swallow the error of a nested invocation, its effects are still rolled back
		if u.abortErr != nil {
			return nil, ierrors.Join(ErrTransactionAborted, ierrors.Wrapf(u.abortErr, "instruction %d (%s)", i, program.Name()))
		}

		returnData = f.returnData
	}

	return returnData, nil
}

func (e *Engine) failed(receipt *Receipt, u *unit, err error) (*Receipt, error) {
	receipt.Err = err
	receipt.Events = u.events

	e.LogDebugf("transaction %s failed: %s", receipt.TransactionID, err)

	return receipt, err
}

// ExecutedTransactions returns the number of committed transactions since the engine was started.
func (e *Engine) ExecutedTransactions() uint64 {
	return e.executedCounter.Load()
}

// FailedTransactions returns the number of failed transactions since the engine was started.
func (e *Engine) FailedTransactions() uint64 {
	return e.failedCounter.Load()
}

// LockedAccounts returns the number of accounts currently locked by transactions in flight.
func (e *Engine) LockedAccounts() int {
	return e.locks.Size()
}

func (e *Engine) Storage() *storage.Storage {
	return e.storage
}

// IsShutdown returns true if the engine no longer accepts transactions.
func (e *Engine) IsShutdown() bool {
	return e.shutdown.Load()
}

// Shutdown stops accepting new transactions.
func (e *Engine) Shutdown() {
	if e.shutdown.Swap(true) {
		return
	}

	e.LogInfo("engine stopped")
}
