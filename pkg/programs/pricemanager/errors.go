package pricemanager

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrUnauthorized is returned if the owner of a registry did not sign a mutation.
	ErrUnauthorized = ierrors.New("unauthorized: signer is not the collection owner")
	// ErrSizeMismatch is returned if the number of prices does not match the size of the registry.
	ErrSizeMismatch = ierrors.New("size mismatch: number of prices does not match expected size")
	ErrInvalidPrice = ierrors.New("invalid price: prices must be greater than zero")
	ErrPriceTooHigh = ierrors.New("price too high")
	// ErrInvalidBump is returned if the stored bump of a registry differs from the one derived from its seeds.
	ErrInvalidBump          = ierrors.New("invalid bump")
	ErrInvalidTreeConfig    = ierrors.New("invalid tree config")
	ErrInvalidMintAuthority = ierrors.New("tree delegate is not the mint authority of the collection")
	// ErrExternalTree wraps errors raised by the tree program.
	ErrExternalTree       = ierrors.New("tree program failed")
	ErrTreeAlreadyExists  = ierrors.New("collection already has a tree")
	ErrNotFound           = ierrors.New("price registry not found")
	ErrInvalidInstruction = ierrors.New("invalid instruction")
	ErrInvalidAccountData = ierrors.New("invalid account data")
)
