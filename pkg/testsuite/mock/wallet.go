package mock

import (
	"golang.org/x/crypto/blake2b"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/crypto/ed25519"
)

// Wallet is a named key pair that signs transactions in tests. The key is derived from the name, so wallets with the
// same name control the same identity across test runs.
type Wallet struct {
	Name string

	privateKey ed25519.PrivateKey
}

func NewWallet(name string) *Wallet {
	seed := blake2b.Sum256([]byte(name))

	return &Wallet{
		Name:       name,
		privateKey: ed25519.PrivateKeyFromSeed(seed[:]),
	}
}

func (w *Wallet) PrivateKey() ed25519.PrivateKey {
	return w.privateKey
}

func (w *Wallet) PublicKey() ed25519.PublicKey {
	return w.privateKey.Public()
}

// Identity returns the ledger identity controlled by the wallet.
func (w *Wallet) Identity() model.Identity {
	return model.IdentityFromPublicKey(w.PublicKey())
}

// Sign signs the transaction with the wallet's key.
func (w *Wallet) Sign(tx *model.Transaction) error {
	return tx.Sign(w.privateKey)
}
