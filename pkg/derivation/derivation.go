// Package derivation computes program derived addresses: deterministic ledger addresses that are controlled by a
// program instead of a private key.
//
// A derived address is the sha256 hash of the seeds, the program identity and a fixed marker. Only hashes that are
// not valid ed25519 curve points are accepted, so that no private key can ever exist for a derived address.
package derivation

import (
	"filippo.io/edwards25519"
	"github.com/minio/sha256-simd"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
)

const (
	// MaxSeeds is the maximum number of seeds (including the bump) that can be used to derive an address.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed in bytes.
	MaxSeedLength = 32

	marker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLengthExceeded = ierrors.New("max seed length exceeded")
	ErrInvalidSeeds          = ierrors.New("provided seeds do not result in a valid address")
	ErrNoViableBump          = ierrors.New("unable to find a viable program address bump")
)

// CreateProgramAddress derives the address for the given seeds (the bump, if any, is expected to be the last seed).
// It fails with ErrInvalidSeeds if the resulting hash is a valid curve point.
func CreateProgramAddress(seeds [][]byte, programID model.Identity) (model.Identity, error) {
	if len(seeds) > MaxSeeds {
		return model.EmptyIdentity, ierrors.Wrapf(ErrMaxSeedLengthExceeded, "too many seeds: %d > %d", len(seeds), MaxSeeds)
	}

	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return model.EmptyIdentity, ierrors.Wrapf(ErrMaxSeedLengthExceeded, "seed %d is %d bytes long", i, len(seed))
		}

		_, _ = h.Write(seed)
	}
	_, _ = h.Write(programID[:])
	_, _ = h.Write([]byte(marker))

	var address model.Identity
	copy(address[:], h.Sum(nil))

	if IsOnCurve(address[:]) {
		return model.EmptyIdentity, ErrInvalidSeeds
	}

	return address, nil
}

// FindProgramAddress searches for the highest bump (starting at 255) that, appended to the seeds, yields a valid
// program address. The result is a pure function of its inputs.
func FindProgramAddress(seeds [][]byte, programID model.Identity) (model.Identity, byte, error) {
	if len(seeds) >= MaxSeeds {
		return model.EmptyIdentity, 0, ierrors.Wrapf(ErrMaxSeedLengthExceeded, "too many seeds: %d >= %d", len(seeds), MaxSeeds)
	}

	seedsWithBump := make([][]byte, len(seeds)+1)
	copy(seedsWithBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		seedsWithBump[len(seeds)] = []byte{byte(bump)}

		address, err := CreateProgramAddress(seedsWithBump, programID)
		if err == nil {
			return address, byte(bump), nil
		}

		if !ierrors.Is(err, ErrInvalidSeeds) {
			return model.EmptyIdentity, 0, err
		}
	}

	return model.EmptyIdentity, 0, ErrNoViableBump
}

// MustFindProgramAddress is like FindProgramAddress but panics on failure. It is meant for static seeds.
func MustFindProgramAddress(seeds [][]byte, programID model.Identity) (model.Identity, byte) {
	address, bump, err := FindProgramAddress(seeds, programID)
	if err != nil {
		panic(err)
	}

	return address, bump
}

// IsOnCurve returns true if the given 32 bytes decode to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)

	return err == nil
}
