package compression

import "github.com/iotaledger/hive.go/ierrors"

var (
	ErrUnknownInstruction    = ierrors.New("unknown instruction")
	ErrInvalidInstruction    = ierrors.New("invalid instruction data")
	ErrMissingSigner         = ierrors.New("missing required signer")
	ErrInvalidTreeDimensions = ierrors.New("unsupported max depth and max buffer size combination")
	ErrInvalidTreeConfig     = ierrors.New("invalid tree config")
)
