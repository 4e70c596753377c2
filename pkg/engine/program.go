package engine

import (
	"time"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/log"
)

// Program is on-ledger logic that is executed by the Engine. Programs must be deterministic: they may only read and
// write accounts through the Context and must not keep state between invocations.
type Program interface {
	// ID returns the identity under which the program is deployed.
	ID() model.Identity
	// Name returns a human readable name of the program.
	Name() string
	// Execute runs a single instruction.
	Execute(ctx Context, instructionData []byte) error
}

// Context is the view of a program on the transaction it is executed in.
type Context interface {
	// ProgramID returns the identity of the executing program.
	ProgramID() model.Identity
	// TransactionID returns the ID of the transaction that is being executed.
	TransactionID() model.TransactionID
	// Timestamp returns the time of the transaction. It is the same for all invocations of a transaction.
	Timestamp() time.Time
	// IsSigner returns true if the given identity authorized this invocation (transaction signer or authority proof).
	IsSigner(id model.Identity) bool
	// Account returns a copy of the account at the given address or ErrAccountNotFound.
	Account(address model.Identity) (*model.Account, error)
	// CreateAccount allocates a zeroed account of the given size that is owned by the executing program. The address
	// has to be a signer of the invocation.
	CreateAccount(address model.Identity, space int) error
	// WriteAccount replaces the data of an account that is owned by the executing program. The size can not change.
	WriteAccount(address model.Identity, data []byte) error
	// SignAs derives the program address for the given seeds (including the bump) and makes it a signer of this
	// invocation. The returned proof can be passed to Invoke to extend the signature to the callee.
	SignAs(seeds ...[]byte) (*AuthorityProof, error)
	// Invoke executes an instruction of another program within the same transaction and returns its return data.
	Invoke(programID model.Identity, instructionData []byte, proofs ...*AuthorityProof) ([]byte, error)
	// EmitEvent appends an event to the transaction's event log.
	EmitEvent(topic model.Identity, data []byte) error
	// SetReturnData sets the data that is returned to the caller of the invocation.
	SetReturnData(data []byte)
	// Logger returns the logger of the invocation.
	Logger() log.Logger
}

// AuthorityProof is the capability to act as a program derived address. It is only valid within the transaction and
// for the program that created it and can not be serialized.
type AuthorityProof struct {
	unit    *unit
	issuer  model.Identity
	address model.Identity
}

// Address returns the program derived address the proof signs for.
func (a *AuthorityProof) Address() model.Identity {
	return a.address
}
