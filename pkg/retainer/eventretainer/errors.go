package eventretainer

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrEntryNotFound is returned when a receipt is not found.
	ErrEntryNotFound = ierrors.New("entry not found")

	// ErrInvalidQuery is returned when the parameters of a query are out of range.
	ErrInvalidQuery = ierrors.New("invalid query")
)
