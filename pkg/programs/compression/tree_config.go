package compression

import (
	"io"

	"github.com/iotaledger/collection-pricing/pkg/derivation"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
)

// TreeConfigSize is the size of a tree config account.
const TreeConfigSize = layout.DiscriminatorLength + 2*model.IdentityLength + 8 + 8 + 1

var treeConfigDiscriminator = layout.AccountDiscriminator("TreeConfig")

// TreeConfig holds the minting configuration of a tree. It lives at TreeConfigAddress(tree).
type TreeConfig struct {
	TreeCreator model.Identity
	// TreeDelegate is the identity that is allowed to mint into the tree.
	TreeDelegate      model.Identity
	TotalMintCapacity uint64
	NumMinted         uint64
	IsPublic          bool
}

// TreeConfigAddress returns the address of the config of the given tree and the bump that derives it.
func TreeConfigAddress(treeAddress model.Identity, programID model.Identity) (model.Identity, byte, error) {
	return derivation.FindProgramAddress([][]byte{treeAddress[:]}, programID)
}

func TreeConfigFromBytes(b []byte) (*TreeConfig, int, error) {
	byteReader := stream.NewByteReader(b)

	config, err := TreeConfigFromReader(byteReader)
	if err != nil {
		return nil, 0, ierrors.Join(ErrInvalidTreeConfig, ierrors.Wrap(err, "failed to parse TreeConfig"))
	}

	return config, byteReader.BytesRead(), nil
}

func TreeConfigFromReader(reader io.ReadSeeker) (*TreeConfig, error) {
	if err := layout.ReadDiscriminator(reader, treeConfigDiscriminator); err != nil {
		return nil, err
	}

	var err error
	config := new(TreeConfig)

	if config.TreeCreator, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TreeCreator")
	}
	if config.TreeDelegate, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TreeDelegate")
	}
	if config.TotalMintCapacity, err = stream.Read[uint64](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TotalMintCapacity")
	}
	if config.NumMinted, err = stream.Read[uint64](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read NumMinted")
	}

	isPublic, err := stream.Read[uint8](reader)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to read IsPublic")
	}
	if isPublic > 1 {
		return nil, ierrors.Errorf("invalid IsPublic flag %d", isPublic)
	}
	config.IsPublic = isPublic == 1

	return config, nil
}

func (t *TreeConfig) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer(TreeConfigSize)

	if err := layout.WriteDiscriminator(byteBuffer, treeConfigDiscriminator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}
	if err := stream.Write(byteBuffer, t.TreeCreator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TreeCreator")
	}
	if err := stream.Write(byteBuffer, t.TreeDelegate); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TreeDelegate")
	}
	if err := stream.Write(byteBuffer, t.TotalMintCapacity); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TotalMintCapacity")
	}
	if err := stream.Write(byteBuffer, t.NumMinted); err != nil {
		return nil, ierrors.Wrap(err, "failed to write NumMinted")
	}
	if err := stream.Write(byteBuffer, boolToByte(t.IsPublic)); err != nil {
		return nil, ierrors.Wrap(err, "failed to write IsPublic")
	}

	return byteBuffer.Bytes()
}

func (t *TreeConfig) String() string {
	return stringify.Struct("TreeConfig",
		stringify.NewStructField("TreeCreator", t.TreeCreator),
		stringify.NewStructField("TreeDelegate", t.TreeDelegate),
		stringify.NewStructField("TotalMintCapacity", t.TotalMintCapacity),
		stringify.NewStructField("NumMinted", t.NumMinted),
		stringify.NewStructField("IsPublic", t.IsPublic),
	)
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}

	return 0
}
