package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

func TestTransaction_SignAndVerify(t *testing.T) {
	alice := ed25519.GenerateKeyPair()
	bob := ed25519.GenerateKeyPair()

	tx := model.NewTransaction(7,
		model.NewInstruction(model.Identity{1}, []byte{1, 2, 3}),
		model.NewInstruction(model.Identity{2}, nil),
	)
	require.NoError(t, tx.Sign(alice.PrivateKey))
	require.NoError(t, tx.Sign(bob.PrivateKey))

	signers, err := tx.VerifySignatures()
	require.NoError(t, err)
	require.ElementsMatch(t, []model.Identity{
		model.IdentityFromPublicKey(alice.PublicKey),
		model.IdentityFromPublicKey(bob.PublicKey),
	}, signers)

	txBytes, err := tx.Bytes()
	require.NoError(t, err)

	decoded, consumed, err := model.TransactionFromBytes(txBytes)
	require.NoError(t, err)
	require.Equal(t, len(txBytes), consumed)
	require.Equal(t, lo.PanicOnErr(tx.ID()), lo.PanicOnErr(decoded.ID()))
	require.Equal(t, len(lo.PanicOnErr(tx.SigningMessage()))+1+2*(ed25519.PublicKeySize+ed25519.SignatureSize), len(txBytes))
	require.Equal(t, tx.Signatures, decoded.Signatures)

	_, err = decoded.VerifySignatures()
	require.NoError(t, err)

	// signatures are bound to the message
	decoded.Instructions[0].Data[0] = 9
	_, err = decoded.VerifySignatures()
	require.True(t, ierrors.Is(err, model.ErrInvalidSignature))
}

func TestTransaction_IDIgnoresSignatures(t *testing.T) {
	tx := model.NewTransaction(1, model.NewInstruction(model.Identity{1}, []byte{42}))
	unsignedID := lo.PanicOnErr(tx.ID())

	require.NoError(t, tx.Sign(ed25519.GenerateKeyPair().PrivateKey))
	require.Equal(t, unsignedID, lo.PanicOnErr(tx.ID()))

	other := model.NewTransaction(2, model.NewInstruction(model.Identity{1}, []byte{42}))
	require.NotEqual(t, unsignedID, lo.PanicOnErr(other.ID()))
}

func TestTransactionFromBytes_Malformed(t *testing.T) {
	tx := model.NewTransaction(1, model.NewInstruction(model.Identity{1}, []byte{42}))
	txBytes := lo.PanicOnErr(tx.Bytes())

	_, _, err := model.TransactionFromBytes(txBytes[:len(txBytes)-1])
	require.ErrorIs(t, err, model.ErrInvalidTransaction)

	_, _, err = model.TransactionFromBytes(append(txBytes, 0))
	require.ErrorIs(t, err, model.ErrInvalidTransaction)
}

func TestIdentity_Base58(t *testing.T) {
	id := model.Identity{0xde, 0xad, 0xbe, 0xef}

	parsed, err := model.IdentityFromBase58(id.String())
	require.NoError(t, err)
	require.True(t, id.Equal(parsed))
	require.False(t, parsed.Empty())
	require.True(t, model.EmptyIdentity.Empty())

	_, err = model.IdentityFromBase58("3mJr7AoUXx2Wqd")
	require.ErrorIs(t, err, model.ErrInvalidIdentity)

	_, err = model.IdentityFromBase58("not-base58!")
	require.ErrorIs(t, err, model.ErrInvalidIdentity)
}

func TestAccount_Bytes(t *testing.T) {
	account := model.NewAccount(model.Identity{3}, 16)
	account.Data[5] = 1

	decoded, _, err := model.AccountFromBytes(lo.PanicOnErr(account.Bytes()))
	require.NoError(t, err)
	require.True(t, account.Equal(decoded))

	clone := account.Clone()
	clone.Data[0] = 1
	require.False(t, account.Equal(clone))
}
