package pricemanager

import (
	"io"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

var (
	createDiscriminator     = layout.InstructionDiscriminator("initialize_collection_prices")
	readDiscriminator       = layout.InstructionDiscriminator("fetch_prices")
	updateDiscriminator     = layout.InstructionDiscriminator("update_prices")
	createTreeDiscriminator = layout.InstructionDiscriminator("create_tree")
	rotateTreeDiscriminator = layout.InstructionDiscriminator("rotate_tree")
	verifyTreeDiscriminator = layout.InstructionDiscriminator("verify_tree")
)

// Instruction is an instruction of the price manager.
type Instruction interface {
	discriminator() layout.Discriminator
	write(writer io.WriteSeeker) error
	read(reader io.ReadSeeker) error
}

// Create creates the price registry of a collection. The owner has to sign and becomes the owner of the registry.
type Create struct {
	Owner       model.Identity
	Collection  model.Identity
	PaymentMint model.Identity
	Size        uint16
	Prices      []uint64
}

// Read returns the size, the payment mint and the prices of a collection as return data (see ReadResult).
type Read struct {
	Collection model.Identity
}

// Update replaces all prices of a collection. It has to be signed by the owner of the registry.
type Update struct {
	Collection model.Identity
	Prices     []uint64
}

// CreateTree creates the first tree of a collection. It has to be signed by the owner of the registry, who also
// pays for the tree.
type CreateTree struct {
	Collection    model.Identity
	MaxDepth      uint32
	MaxBufferSize uint32
}

// RotateTree replaces the tree of a collection with a new one. The previous tree is abandoned.
type RotateTree struct {
	Collection    model.Identity
	MaxDepth      uint32
	MaxBufferSize uint32
}

// VerifyTree checks that the given tree is controlled by the mint authority of the collection.
type VerifyTree struct {
	Collection  model.Identity
	TreeAddress model.Identity
}

// NewInstruction encodes the given instruction for the price manager deployed under programID.
func NewInstruction(programID model.Identity, instruction Instruction) (*model.Instruction, error) {
	data, err := InstructionBytes(instruction)
	if err != nil {
		return nil, err
	}

	return model.NewInstruction(programID, data), nil
}

// InstructionBytes encodes the given instruction.
func InstructionBytes(instruction Instruction) ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if err := layout.WriteDiscriminator(byteBuffer, instruction.discriminator()); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}

	if err := instruction.write(byteBuffer); err != nil {
		return nil, err
	}

	return byteBuffer.Bytes()
}

// InstructionFromBytes decodes an instruction. Trailing bytes are rejected.
func InstructionFromBytes(b []byte) (Instruction, error) {
	byteReader := stream.NewByteReader(b)

	d, err := layout.ReadAnyDiscriminator(byteReader)
	if err != nil {
		return nil, ierrors.Join(ErrInvalidInstruction, ierrors.Wrap(err, "failed to read discriminator"))
	}

	var instruction Instruction
	switch d {
	case createDiscriminator:
		instruction = new(Create)
	case readDiscriminator:
		instruction = new(Read)
	case updateDiscriminator:
		instruction = new(Update)
	case createTreeDiscriminator:
		instruction = new(CreateTree)
	case rotateTreeDiscriminator:
		instruction = new(RotateTree)
	case verifyTreeDiscriminator:
		instruction = new(VerifyTree)
	default:
		return nil, ierrors.Wrapf(ErrInvalidInstruction, "unknown discriminator %x", d)
	}

	if err = instruction.read(byteReader); err != nil {
		return nil, ierrors.Join(ErrInvalidInstruction, err)
	}

	if byteReader.BytesRead() != len(b) {
		return nil, ierrors.Wrapf(ErrInvalidInstruction, "%d trailing bytes", len(b)-byteReader.BytesRead())
	}

	return instruction, nil
}

func (c *Create) discriminator() layout.Discriminator {
	return createDiscriminator
}

func (c *Create) write(writer io.WriteSeeker) error {
	if err := stream.Write(writer, c.Owner); err != nil {
		return ierrors.Wrap(err, "failed to write Owner")
	}
	if err := stream.Write(writer, c.Collection); err != nil {
		return ierrors.Wrap(err, "failed to write Collection")
	}
	if err := stream.Write(writer, c.PaymentMint); err != nil {
		return ierrors.Wrap(err, "failed to write PaymentMint")
	}
	if err := stream.Write(writer, c.Size); err != nil {
		return ierrors.Wrap(err, "failed to write Size")
	}

	return writePrices(writer, c.Prices)
}

func (c *Create) read(reader io.ReadSeeker) (err error) {
	if c.Owner, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read Owner")
	}
	if c.Collection, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read Collection")
	}
	if c.PaymentMint, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read PaymentMint")
	}
	if c.Size, err = stream.Read[uint16](reader); err != nil {
		return ierrors.Wrap(err, "failed to read Size")
	}
	c.Prices, err = readPrices(reader)

	return err
}

func (r *Read) discriminator() layout.Discriminator {
	return readDiscriminator
}

func (r *Read) write(writer io.WriteSeeker) error {
	if err := stream.Write(writer, r.Collection); err != nil {
		return ierrors.Wrap(err, "failed to write Collection")
	}

	return nil
}

func (r *Read) read(reader io.ReadSeeker) (err error) {
	if r.Collection, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read Collection")
	}

	return nil
}

func (u *Update) discriminator() layout.Discriminator {
	return updateDiscriminator
}

func (u *Update) write(writer io.WriteSeeker) error {
	if err := stream.Write(writer, u.Collection); err != nil {
		return ierrors.Wrap(err, "failed to write Collection")
	}

	return writePrices(writer, u.Prices)
}

func (u *Update) read(reader io.ReadSeeker) (err error) {
	if u.Collection, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read Collection")
	}
	u.Prices, err = readPrices(reader)

	return err
}

func (c *CreateTree) discriminator() layout.Discriminator {
	return createTreeDiscriminator
}

func (c *CreateTree) write(writer io.WriteSeeker) error {
	return writeTreeParameters(writer, c.Collection, c.MaxDepth, c.MaxBufferSize)
}

func (c *CreateTree) read(reader io.ReadSeeker) (err error) {
	c.Collection, c.MaxDepth, c.MaxBufferSize, err = readTreeParameters(reader)

	return err
}

func (r *RotateTree) discriminator() layout.Discriminator {
	return rotateTreeDiscriminator
}

func (r *RotateTree) write(writer io.WriteSeeker) error {
	return writeTreeParameters(writer, r.Collection, r.MaxDepth, r.MaxBufferSize)
}

func (r *RotateTree) read(reader io.ReadSeeker) (err error) {
	r.Collection, r.MaxDepth, r.MaxBufferSize, err = readTreeParameters(reader)

	return err
}

func (v *VerifyTree) discriminator() layout.Discriminator {
	return verifyTreeDiscriminator
}

func (v *VerifyTree) write(writer io.WriteSeeker) error {
	if err := stream.Write(writer, v.Collection); err != nil {
		return ierrors.Wrap(err, "failed to write Collection")
	}
	if err := stream.Write(writer, v.TreeAddress); err != nil {
		return ierrors.Wrap(err, "failed to write TreeAddress")
	}

	return nil
}

func (v *VerifyTree) read(reader io.ReadSeeker) (err error) {
	if v.Collection, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read Collection")
	}
	if v.TreeAddress, err = stream.Read[model.Identity](reader); err != nil {
		return ierrors.Wrap(err, "failed to read TreeAddress")
	}

	return nil
}

func writeTreeParameters(writer io.WriteSeeker, collection model.Identity, maxDepth uint32, maxBufferSize uint32) error {
	if err := stream.Write(writer, collection); err != nil {
		return ierrors.Wrap(err, "failed to write Collection")
	}
	if err := stream.Write(writer, maxDepth); err != nil {
		return ierrors.Wrap(err, "failed to write MaxDepth")
	}
	if err := stream.Write(writer, maxBufferSize); err != nil {
		return ierrors.Wrap(err, "failed to write MaxBufferSize")
	}

	return nil
}

func readTreeParameters(reader io.ReadSeeker) (collection model.Identity, maxDepth uint32, maxBufferSize uint32, err error) {
	if collection, err = stream.Read[model.Identity](reader); err != nil {
		return collection, 0, 0, ierrors.Wrap(err, "failed to read Collection")
	}
	if maxDepth, err = stream.Read[uint32](reader); err != nil {
		return collection, 0, 0, ierrors.Wrap(err, "failed to read MaxDepth")
	}
	if maxBufferSize, err = stream.Read[uint32](reader); err != nil {
		return collection, 0, 0, ierrors.Wrap(err, "failed to read MaxBufferSize")
	}

	return collection, maxDepth, maxBufferSize, nil
}

// ReadResult is the return data of a Read instruction.
type ReadResult struct {
	Size        uint16
	PaymentMint model.Identity
	Prices      []uint64
}

func ReadResultFromBytes(b []byte) (*ReadResult, error) {
	var err error
	result := new(ReadResult)
	byteReader := stream.NewByteReader(b)

	if result.Size, err = stream.Read[uint16](byteReader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Size")
	}
	if result.PaymentMint, err = stream.Read[model.Identity](byteReader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read PaymentMint")
	}
	if result.Prices, err = readPrices(byteReader); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ReadResult) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if err := stream.Write(byteBuffer, r.Size); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Size")
	}
	if err := stream.Write(byteBuffer, r.PaymentMint); err != nil {
		return nil, ierrors.Wrap(err, "failed to write PaymentMint")
	}
	if err := writePrices(byteBuffer, r.Prices); err != nil {
		return nil, err
	}

	return byteBuffer.Bytes()
}
