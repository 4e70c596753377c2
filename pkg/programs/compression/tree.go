package compression

import (
	"io"
	"slices"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
)

// TreeHeaderSize is the size of a tree account. The tree itself is not materialized, only its header.
const TreeHeaderSize = layout.DiscriminatorLength + 4 + 4 + model.IdentityLength + 8

// treeDimensions are the supported (max depth, max buffer size) pairs.
var treeDimensions = map[uint32][]uint32{
	3:  {8},
	5:  {8},
	14: {64, 256, 1024, 2048},
	15: {64},
	16: {64},
	17: {64},
	18: {64},
	19: {64},
	20: {64, 256, 1024, 2048},
	24: {64, 256, 512, 1024, 2048},
	26: {512, 1024, 2048},
	30: {512, 1024, 2048},
}

var treeHeaderDiscriminator = layout.AccountDiscriminator("ConcurrentMerkleTree")

// ValidDimensions returns true if a tree with the given max depth and max buffer size can be created.
func ValidDimensions(maxDepth uint32, maxBufferSize uint32) bool {
	bufferSizes, exists := treeDimensions[maxDepth]
	if !exists {
		return false
	}

	return slices.Contains(bufferSizes, maxBufferSize)
}

// TreeHeader describes a compressed tree.
type TreeHeader struct {
	MaxDepth      uint32
	MaxBufferSize uint32
	// Authority is the tree config account that controls the tree.
	Authority model.Identity
	// CreatedAt is the unix timestamp of the transaction that created the tree.
	CreatedAt int64
}

func TreeHeaderFromBytes(b []byte) (*TreeHeader, int, error) {
	byteReader := stream.NewByteReader(b)

	header, err := TreeHeaderFromReader(byteReader)
	if err != nil {
		return nil, 0, ierrors.Wrap(err, "failed to parse TreeHeader")
	}

	return header, byteReader.BytesRead(), nil
}

func TreeHeaderFromReader(reader io.ReadSeeker) (*TreeHeader, error) {
	if err := layout.ReadDiscriminator(reader, treeHeaderDiscriminator); err != nil {
		return nil, err
	}

	var err error
	header := new(TreeHeader)

	if header.MaxDepth, err = stream.Read[uint32](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read MaxDepth")
	}
	if header.MaxBufferSize, err = stream.Read[uint32](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read MaxBufferSize")
	}
	if header.Authority, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Authority")
	}
	if header.CreatedAt, err = stream.Read[int64](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read CreatedAt")
	}

	return header, nil
}

func (t *TreeHeader) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer(TreeHeaderSize)

	if err := layout.WriteDiscriminator(byteBuffer, treeHeaderDiscriminator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}
	if err := stream.Write(byteBuffer, t.MaxDepth); err != nil {
		return nil, ierrors.Wrap(err, "failed to write MaxDepth")
	}
	if err := stream.Write(byteBuffer, t.MaxBufferSize); err != nil {
		return nil, ierrors.Wrap(err, "failed to write MaxBufferSize")
	}
	if err := stream.Write(byteBuffer, t.Authority); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Authority")
	}
	if err := stream.Write(byteBuffer, t.CreatedAt); err != nil {
		return nil, ierrors.Wrap(err, "failed to write CreatedAt")
	}

	return byteBuffer.Bytes()
}

func (t *TreeHeader) String() string {
	return stringify.Struct("TreeHeader",
		stringify.NewStructField("MaxDepth", t.MaxDepth),
		stringify.NewStructField("MaxBufferSize", t.MaxBufferSize),
		stringify.NewStructField("Authority", t.Authority),
		stringify.NewStructField("CreatedAt", t.CreatedAt),
	)
}
