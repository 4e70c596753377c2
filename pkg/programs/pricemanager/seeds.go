package pricemanager

import (
	"github.com/iotaledger/collection-pricing/pkg/derivation"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/stringify"
)

var (
	registrySeed      = []byte("prices")
	mintAuthoritySeed = []byte("mint_authority")
	treeIndexSeed     = []byte("tree_index")
	treeSeed          = []byte("merkle_tree")
)

func registrySeeds(collection model.Identity) [][]byte {
	return [][]byte{registrySeed, collection[:]}
}

func mintAuthoritySeeds(collection model.Identity) [][]byte {
	return [][]byte{mintAuthoritySeed, collection[:]}
}

func treeIndexSeeds(treeAddress model.Identity) [][]byte {
	return [][]byte{treeIndexSeed, treeAddress[:]}
}

func treeSeeds(collection model.Identity, previousTree model.Identity) [][]byte {
	return [][]byte{treeSeed, collection[:], previousTree[:]}
}

func withBump(seeds [][]byte, bump byte) [][]byte {
	return append(seeds, []byte{bump})
}

// RegistryAddress returns the address of the price registry of a collection and its bump.
func RegistryAddress(collection model.Identity, programID model.Identity) (model.Identity, byte, error) {
	return derivation.FindProgramAddress(registrySeeds(collection), programID)
}

// MintAuthorityAddress returns the address that signs for a collection towards the tree program.
func MintAuthorityAddress(collection model.Identity, programID model.Identity) (model.Identity, byte, error) {
	return derivation.FindProgramAddress(mintAuthoritySeeds(collection), programID)
}

// TreeIndexAddress returns the address of the index counter of a tree.
func TreeIndexAddress(treeAddress model.Identity, programID model.Identity) (model.Identity, byte, error) {
	return derivation.FindProgramAddress(treeIndexSeeds(treeAddress), programID)
}

// TreeAddress returns the address of the tree that follows previousTree for a collection. The first tree of a
// collection follows the empty identity.
func TreeAddress(collection model.Identity, previousTree model.Identity, programID model.Identity) (model.Identity, byte, error) {
	return derivation.FindProgramAddress(treeSeeds(collection, previousTree), programID)
}

// DerivedAddress is a program derived address together with its bump.
type DerivedAddress struct {
	Address model.Identity
	Bump    byte
}

// CollectionAddresses are the addresses related to a collection that clients need to build transactions.
type CollectionAddresses struct {
	Collection    model.Identity
	Registry      DerivedAddress
	MintAuthority DerivedAddress
	// NextTree is the address the next created or rotated tree will be allocated at.
	NextTree DerivedAddress
	// Tree, TreeIndex and TreeConfig are only set if the collection has a tree.
	Tree       model.Identity
	TreeIndex  *DerivedAddress
	TreeConfig *DerivedAddress
}

// DeriveCollectionAddresses derives all addresses of a collection. currentTree is the tree of the registry or the
// empty identity if it has none.
func DeriveCollectionAddresses(collection model.Identity, currentTree model.Identity, programID model.Identity, treeProgramID model.Identity) (*CollectionAddresses, error) {
	addresses := &CollectionAddresses{
		Collection: collection,
		Tree:       currentTree,
	}

	var err error
	if addresses.Registry.Address, addresses.Registry.Bump, err = RegistryAddress(collection, programID); err != nil {
		return nil, ierrors.Wrap(err, "failed to derive registry address")
	}
	if addresses.MintAuthority.Address, addresses.MintAuthority.Bump, err = MintAuthorityAddress(collection, programID); err != nil {
		return nil, ierrors.Wrap(err, "failed to derive mint authority address")
	}
	if addresses.NextTree.Address, addresses.NextTree.Bump, err = TreeAddress(collection, currentTree, programID); err != nil {
		return nil, ierrors.Wrap(err, "failed to derive next tree address")
	}

	if currentTree.Empty() {
		return addresses, nil
	}

	addresses.TreeIndex = new(DerivedAddress)
	if addresses.TreeIndex.Address, addresses.TreeIndex.Bump, err = TreeIndexAddress(currentTree, programID); err != nil {
		return nil, ierrors.Wrap(err, "failed to derive tree index address")
	}

	addresses.TreeConfig = new(DerivedAddress)
	if addresses.TreeConfig.Address, addresses.TreeConfig.Bump, err = compression.TreeConfigAddress(currentTree, treeProgramID); err != nil {
		return nil, ierrors.Wrap(err, "failed to derive tree config address")
	}

	return addresses, nil
}

func (c *CollectionAddresses) String() string {
	builder := stringify.NewStructBuilder("CollectionAddresses",
		stringify.NewStructField("Collection", c.Collection),
		stringify.NewStructField("Registry", c.Registry.Address),
		stringify.NewStructField("MintAuthority", c.MintAuthority.Address),
		stringify.NewStructField("NextTree", c.NextTree.Address),
	)

	if c.TreeIndex != nil {
		builder.AddField(stringify.NewStructField("Tree", c.Tree))
		builder.AddField(stringify.NewStructField("TreeIndex", c.TreeIndex.Address))
		builder.AddField(stringify.NewStructField("TreeConfig", c.TreeConfig.Address))
	}

	return builder.String()
}
