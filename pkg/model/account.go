package model

import (
	"bytes"
	"io"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
)

// Account is a record stored on the ledger. Its data can only be modified by the program that owns it.
type Account struct {
	// Owner is the program that is allowed to write the account.
	Owner Identity
	// Data is the raw content of the account. Its length is fixed at creation.
	Data []byte
}

func NewAccount(owner Identity, space int) *Account {
	return &Account{
		Owner: owner,
		Data:  make([]byte, space),
	}
}

func AccountFromBytes(b []byte) (*Account, int, error) {
	byteReader := stream.NewByteReader(b)

	a, err := AccountFromReader(byteReader)
	if err != nil {
		return nil, 0, ierrors.Wrap(err, "failed to parse Account")
	}

	return a, byteReader.BytesRead(), nil
}

func AccountFromReader(reader io.ReadSeeker) (*Account, error) {
	var err error
	a := new(Account)

	if a.Owner, err = stream.Read[Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Owner")
	}
	if a.Data, err = stream.ReadBytesWithSize(reader, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Data")
	}

	return a, nil
}

func (a *Account) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer(IdentityLength + serializer.UInt32ByteSize + len(a.Data))

	if err := stream.Write(byteBuffer, a.Owner); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Owner")
	}
	if err := stream.WriteBytesWithSize(byteBuffer, a.Data, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Data")
	}

	return byteBuffer.Bytes()
}

// Clone returns a deep copy of the Account.
func (a *Account) Clone() *Account {
	return &Account{
		Owner: a.Owner,
		Data:  lo.CopySlice(a.Data),
	}
}

func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}

	return a.Owner == other.Owner && bytes.Equal(a.Data, other.Data)
}

func (a *Account) String() string {
	return stringify.Struct("Account",
		stringify.NewStructField("Owner", a.Owner),
		stringify.NewStructField("Size", len(a.Data)),
	)
}
