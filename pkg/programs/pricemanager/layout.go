package pricemanager

import (
	"io"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
	"github.com/iotaledger/hive.go/stringify"
)

const (
	// registryFixedSize is the size of a registry without its prices.
	registryFixedSize = layout.DiscriminatorLength +
		model.IdentityLength + // owner
		model.IdentityLength + // collection
		2 + // size
		model.IdentityLength + // payment mint
		4 + // price count
		model.IdentityLength + // tree address
		1 // bump

	priceSize = 8

	// TreeIndexCounterSize is the size of a tree index counter account.
	TreeIndexCounterSize = layout.DiscriminatorLength + 8
)

var (
	registryDiscriminator         = layout.AccountDiscriminator("PriceRegistry")
	treeIndexCounterDiscriminator = layout.AccountDiscriminator("TreeIndexCounter")
)

// RegistrySize returns the account size of a registry with the given number of prices.
func RegistrySize(size uint16) int {
	return registryFixedSize + priceSize*int(size)
}

// Registry is the price list of a collection. It lives at RegistryAddress(Collection).
type Registry struct {
	Owner       model.Identity
	Collection  model.Identity
	Size        uint16
	PaymentMint model.Identity
	Prices      []uint64
	// TreeAddress is the tree the collection currently mints into. It is empty until the first tree is created.
	TreeAddress model.Identity
	Bump        byte
}

func RegistryFromBytes(b []byte) (*Registry, int, error) {
	byteReader := stream.NewByteReader(b)

	registry, err := RegistryFromReader(byteReader)
	if err != nil {
		return nil, 0, ierrors.Join(ErrInvalidAccountData, ierrors.Wrap(err, "failed to parse Registry"))
	}

	return registry, byteReader.BytesRead(), nil
}

func RegistryFromReader(reader io.ReadSeeker) (*Registry, error) {
	if err := layout.ReadDiscriminator(reader, registryDiscriminator); err != nil {
		return nil, err
	}

	var err error
	r := new(Registry)

	if r.Owner, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Owner")
	}
	if r.Collection, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Collection")
	}
	if r.Size, err = stream.Read[uint16](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Size")
	}
	if r.PaymentMint, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read PaymentMint")
	}
	if r.Prices, err = readPrices(reader); err != nil {
		return nil, err
	}
	if len(r.Prices) != int(r.Size) {
		return nil, ierrors.Wrapf(ErrSizeMismatch, "stored %d prices for size %d", len(r.Prices), r.Size)
	}
	if r.TreeAddress, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TreeAddress")
	}
	if r.Bump, err = stream.Read[byte](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Bump")
	}

	return r, nil
}

func (r *Registry) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer(RegistrySize(r.Size))

	if err := layout.WriteDiscriminator(byteBuffer, registryDiscriminator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}
	if err := stream.Write(byteBuffer, r.Owner); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Owner")
	}
	if err := stream.Write(byteBuffer, r.Collection); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Collection")
	}
	if err := stream.Write(byteBuffer, r.Size); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Size")
	}
	if err := stream.Write(byteBuffer, r.PaymentMint); err != nil {
		return nil, ierrors.Wrap(err, "failed to write PaymentMint")
	}
	if err := writePrices(byteBuffer, r.Prices); err != nil {
		return nil, err
	}
	if err := stream.Write(byteBuffer, r.TreeAddress); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TreeAddress")
	}
	if err := stream.Write(byteBuffer, r.Bump); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Bump")
	}

	return byteBuffer.Bytes()
}

func (r *Registry) Clone() *Registry {
	clone := *r
	clone.Prices = lo.CopySlice(r.Prices)

	return &clone
}

func (r *Registry) String() string {
	return stringify.Struct("Registry",
		stringify.NewStructField("Owner", r.Owner),
		stringify.NewStructField("Collection", r.Collection),
		stringify.NewStructField("Size", r.Size),
		stringify.NewStructField("PaymentMint", r.PaymentMint),
		stringify.NewStructField("Prices", r.Prices),
		stringify.NewStructField("TreeAddress", r.TreeAddress),
		stringify.NewStructField("Bump", r.Bump),
	)
}

// TreeIndexCounter tracks the next leaf index of a tree. It is initialized to zero and advanced by minting.
type TreeIndexCounter struct {
	CurrentIndex uint64
}

func TreeIndexCounterFromBytes(b []byte) (*TreeIndexCounter, int, error) {
	byteReader := stream.NewByteReader(b)

	if err := layout.ReadDiscriminator(byteReader, treeIndexCounterDiscriminator); err != nil {
		return nil, 0, ierrors.Join(ErrInvalidAccountData, err)
	}

	currentIndex, err := stream.Read[uint64](byteReader)
	if err != nil {
		return nil, 0, ierrors.Join(ErrInvalidAccountData, ierrors.Wrap(err, "failed to read CurrentIndex"))
	}

	return &TreeIndexCounter{CurrentIndex: currentIndex}, byteReader.BytesRead(), nil
}

func (t *TreeIndexCounter) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer(TreeIndexCounterSize)

	if err := layout.WriteDiscriminator(byteBuffer, treeIndexCounterDiscriminator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}
	if err := stream.Write(byteBuffer, t.CurrentIndex); err != nil {
		return nil, ierrors.Wrap(err, "failed to write CurrentIndex")
	}

	return byteBuffer.Bytes()
}

func readPrices(reader io.ReadSeeker) ([]uint64, error) {
	count, err := stream.Read[uint32](reader)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to read price count")
	}

	if count > uint32(^uint16(0)) {
		return nil, ierrors.Errorf("price count %d exceeds the maximum size", count)
	}

	prices := make([]uint64, count)
	for i := range prices {
		if prices[i], err = stream.Read[uint64](reader); err != nil {
			return nil, ierrors.Wrapf(err, "failed to read price %d", i)
		}
	}

	return prices, nil
}

func writePrices(writer io.WriteSeeker, prices []uint64) error {
	if err := stream.Write(writer, uint32(len(prices))); err != nil {
		return ierrors.Wrap(err, "failed to write price count")
	}

	for i, price := range prices {
		if err := stream.Write(writer, price); err != nil {
			return ierrors.Wrapf(err, "failed to write price %d", i)
		}
	}

	return nil
}
