package model

import (
	"bytes"

	"github.com/mr-tron/base58"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
)

// IdentityLength is the length of an Identity in bytes.
const IdentityLength = 32

// EmptyIdentity is the zero value of an Identity. It is used to mark unset references (e.g. a registry without a tree).
var EmptyIdentity = Identity{}

// ErrInvalidIdentity is returned when an Identity can not be decoded.
var ErrInvalidIdentity = ierrors.New("invalid identity")

// Identity is an opaque 32-byte ledger address. It identifies keys, programs and program derived addresses alike.
type Identity [IdentityLength]byte

// IdentityFromBytes parses an Identity from the first IdentityLength bytes of the given slice.
func IdentityFromBytes(b []byte) (Identity, int, error) {
	var id Identity
	if len(b) < IdentityLength {
		return id, 0, ierrors.Wrapf(ErrInvalidIdentity, "not enough bytes: %d < %d", len(b), IdentityLength)
	}

	copy(id[:], b)

	return id, IdentityLength, nil
}

// IdentityFromBase58 parses a base58 encoded Identity.
func IdentityFromBase58(s string) (Identity, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return EmptyIdentity, ierrors.Join(ErrInvalidIdentity, ierrors.Wrapf(err, "failed to decode base58 string %q", s))
	}

	if len(decoded) != IdentityLength {
		return EmptyIdentity, ierrors.Wrapf(ErrInvalidIdentity, "wrong length of %q: %d != %d", s, len(decoded), IdentityLength)
	}

	id, _, err := IdentityFromBytes(decoded)

	return id, err
}

// MustIdentityFromBase58 parses a base58 encoded Identity and panics on failure.
func MustIdentityFromBase58(s string) Identity {
	id, err := IdentityFromBase58(s)
	if err != nil {
		panic(err)
	}

	return id
}

// IdentityFromPublicKey returns the Identity that is controlled by the given ed25519 public key.
func IdentityFromPublicKey(publicKey ed25519.PublicKey) Identity {
	return Identity(publicKey)
}

func (i Identity) Bytes() ([]byte, error) {
	return i[:], nil
}

func (i Identity) Equal(other Identity) bool {
	return bytes.Equal(i[:], other[:])
}

// Empty returns true if the Identity is the zero value.
func (i Identity) Empty() bool {
	return i == EmptyIdentity
}

func (i Identity) String() string {
	return base58.Encode(i[:])
}

// Alias returns a shortened form of the base58 representation for log output.
func (i Identity) Alias() string {
	s := i.String()
	if len(s) <= 8 {
		return s
	}

	return s[:4] + ".." + s[len(s)-4:]
}
