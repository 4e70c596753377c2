package engine

import "github.com/iotaledger/hive.go/ierrors"

var (
	ErrAccountNotFound            = ierrors.New("account not found")
	ErrAccountAlreadyExists       = ierrors.New("account already exists")
	ErrAccountInUse               = ierrors.New("account is in use by another transaction")
	ErrAccountNotOwned            = ierrors.New("account is not owned by the program")
	ErrAccountSizeMismatch        = ierrors.New("account data size can not change")
	ErrMissingSignature           = ierrors.New("missing required signature")
	ErrUnknownProgram             = ierrors.New("unknown program")
	ErrProgramAlreadyExists       = ierrors.New("program already registered")
	ErrInvalidAuthorityProof      = ierrors.New("invalid authority proof")
	ErrCallDepthExceeded          = ierrors.New("call depth exceeded")
	ErrTooManyEvents              = ierrors.New("too many events emitted")
	ErrEmptyTransaction           = ierrors.New("transaction has no instructions")
	ErrTransactionAborted         = ierrors.New("transaction aborted by a failed invocation")
	ErrTransactionAlreadyExecuted = ierrors.New("transaction was already executed")
	ErrEngineShutdown             = ierrors.New("engine is shut down")
)
