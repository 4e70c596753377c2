package engine

import (
	"time"

	"github.com/iotaledger/collection-pricing/pkg/derivation"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
)

// frame is a single program invocation within a unit. Nested invocations get their own frame.
type frame struct {
	unit       *unit
	program    Program
	depth      int
	signers    map[model.Identity]struct{}
	returnData []byte
	logger     log.Logger
}

var _ Context = &frame{}

func newFrame(u *unit, program Program, depth int, proofs []*AuthorityProof) *frame {
	f := &frame{
		unit:    u,
		program: program,
		depth:   depth,
		signers: make(map[model.Identity]struct{}, len(u.signers)+len(proofs)),
		logger:  u.engine.programLogger(program),
	}

	for signer := range u.signers {
		f.signers[signer] = struct{}{}
	}

	for _, proof := range proofs {
		f.signers[proof.address] = struct{}{}
	}

	return f
}

func (f *frame) execute(instructionData []byte) error {
	return f.program.Execute(f, instructionData)
}

func (f *frame) ProgramID() model.Identity {
	return f.program.ID()
}

func (f *frame) TransactionID() model.TransactionID {
	return f.unit.transactionID
}

func (f *frame) Timestamp() time.Time {
	return f.unit.timestamp
}

func (f *frame) IsSigner(id model.Identity) bool {
	_, isSigner := f.signers[id]

	return isSigner
}

func (f *frame) Account(address model.Identity) (*model.Account, error) {
	account, err := f.unit.account(address)
	if err != nil {
		return nil, err
	}

	return account.Clone(), nil
}

func (f *frame) CreateAccount(address model.Identity, space int) error {
	if space < 0 || space > f.unit.engine.optsMaxAccountSize {
		return ierrors.Errorf("invalid account size %d (max %d)", space, f.unit.engine.optsMaxAccountSize)
	}

	if !f.IsSigner(address) {
		return ierrors.Wrapf(ErrMissingSignature, "creating account %s requires its signature", address)
	}

	return f.unit.createAccount(f.ProgramID(), address, space)
}

func (f *frame) WriteAccount(address model.Identity, data []byte) error {
	return f.unit.writeAccount(f.ProgramID(), address, data)
}

func (f *frame) SignAs(seeds ...[]byte) (*AuthorityProof, error) {
	address, err := derivation.CreateProgramAddress(seeds, f.ProgramID())
	if err != nil {
		return nil, ierrors.Join(ErrInvalidAuthorityProof, ierrors.Wrap(err, "failed to derive program address"))
	}

	f.signers[address] = struct{}{}

	return &AuthorityProof{
		unit:    f.unit,
		issuer:  f.ProgramID(),
		address: address,
	}, nil
}

func (f *frame) Invoke(programID model.Identity, instructionData []byte, proofs ...*AuthorityProof) (returnData []byte, err error) {
	// any failure of a nested invocation aborts the whole transaction
	defer func() {
		if err != nil {
			f.unit.abort(err)
		}
	}()

	if f.unit.abortErr != nil {
		return nil, ierrors.Join(ErrTransactionAborted, f.unit.abortErr)
	}

	if f.depth >= f.unit.engine.optsMaxCallDepth {
		return nil, ierrors.Wrapf(ErrCallDepthExceeded, "max depth is %d", f.unit.engine.optsMaxCallDepth)
	}

	program, exists := f.unit.engine.Program(programID)
	if !exists {
		return nil, ierrors.Wrapf(ErrUnknownProgram, "program %s", programID)
	}

	for _, proof := range proofs {
		if proof == nil || proof.unit != f.unit || proof.issuer != f.ProgramID() {
			return nil, ierrors.Wrapf(ErrInvalidAuthorityProof, "proof was not issued by %s in this transaction", f.ProgramID())
		}
	}

	callee := newFrame(f.unit, program, f.depth+1, proofs)
	if err = callee.execute(instructionData); err != nil {
		return nil, ierrors.Wrapf(err, "invocation of %s failed", program.Name())
	}

	return lo.CopySlice(callee.returnData), nil
}

func (f *frame) EmitEvent(topic model.Identity, data []byte) error {
	return f.unit.emitEvent(f.ProgramID(), topic, data)
}

func (f *frame) SetReturnData(data []byte) {
	f.returnData = lo.CopySlice(data)
}

func (f *frame) Logger() log.Logger {
	return f.logger
}
