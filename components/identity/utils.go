package identity

import (
	"bytes"
	"crypto/rand"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage/permanent"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/iota.go/v4/hexutil"
)

// ErrMismatchedSeeds is returned when the seed defined in the config does not correspond to the seed stored in an
// already existing database.
var ErrMismatchedSeeds = ierrors.New("seed defined in the config does not correspond with the already stored seed in the database")

func readSeedFromCfg() ([]byte, error) {
	seedBytes, err := hexutil.DecodeHex(ParamsIdentity.Seed)
	if err != nil {
		return nil, ierrors.Wrap(err, "invalid seed")
	}

	if l := len(seedBytes); l != ed25519.SeedSize {
		return nil, ierrors.Errorf("invalid seed length: %d, need %d", l, ed25519.SeedSize)
	}

	return seedBytes, nil
}

// loadSeed returns the seed of the node. A configured seed has to match the stored one unless overwriting is
// enabled. Without any seed a random one is generated and stored.
func loadSeed(settings *permanent.Settings) (seed []byte, generated bool, err error) {
	storedSeed, err := settings.NodeSeed()
	if err != nil && !ierrors.Is(err, permanent.ErrNodeSeedNotFound) {
		return nil, false, err
	}

	if ParamsIdentity.Seed == "" {
		if storedSeed != nil {
			return storedSeed, false, nil
		}

		seed = make([]byte, ed25519.SeedSize)
		if _, err = rand.Read(seed); err != nil {
			return nil, false, ierrors.Wrap(err, "unable to generate seed")
		}

		return seed, true, settings.StoreNodeSeed(seed)
	}

	if seed, err = readSeedFromCfg(); err != nil {
		return nil, false, err
	}

	if storedSeed != nil && !bytes.Equal(seed, storedSeed) {
		if !ParamsIdentity.OverwriteStoredSeed {
			return nil, false, ierrors.Wrapf(ErrMismatchedSeeds, "identities (cfg/db): %s vs. %s", nodeID(ed25519.PrivateKeyFromSeed(seed)), nodeID(ed25519.PrivateKeyFromSeed(storedSeed)))
		}
	}

	return seed, false, settings.StoreNodeSeed(seed)
}

func nodeID(privateKey ed25519.PrivateKey) model.Identity {
	return model.IdentityFromPublicKey(privateKey.Public())
}
