package compression

import (
	"io"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

var createTreeDiscriminator = layout.InstructionDiscriminator("create_tree")

// CreateTree allocates a new tree and its config. All three identities have to sign the invocation. The tree creator
// becomes the delegate that is allowed to mint into the tree.
type CreateTree struct {
	TreeCreator   model.Identity
	Payer         model.Identity
	Tree          model.Identity
	MaxDepth      uint32
	MaxBufferSize uint32
	Public        bool
}

// Instruction returns the instruction that executes CreateTree on the program with the given ID.
func (c *CreateTree) Instruction(programID model.Identity) (*model.Instruction, error) {
	data, err := c.Bytes()
	if err != nil {
		return nil, err
	}

	return model.NewInstruction(programID, data), nil
}

func (c *CreateTree) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if err := layout.WriteDiscriminator(byteBuffer, createTreeDiscriminator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write discriminator")
	}
	if err := stream.Write(byteBuffer, c.TreeCreator); err != nil {
		return nil, ierrors.Wrap(err, "failed to write TreeCreator")
	}
	if err := stream.Write(byteBuffer, c.Payer); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Payer")
	}
	if err := stream.Write(byteBuffer, c.Tree); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Tree")
	}
	if err := stream.Write(byteBuffer, c.MaxDepth); err != nil {
		return nil, ierrors.Wrap(err, "failed to write MaxDepth")
	}
	if err := stream.Write(byteBuffer, c.MaxBufferSize); err != nil {
		return nil, ierrors.Wrap(err, "failed to write MaxBufferSize")
	}
	if err := stream.Write(byteBuffer, boolToByte(c.Public)); err != nil {
		return nil, ierrors.Wrap(err, "failed to write Public")
	}

	return byteBuffer.Bytes()
}

func createTreeFromReader(reader io.ReadSeeker) (*CreateTree, error) {
	var err error
	c := new(CreateTree)

	if c.TreeCreator, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read TreeCreator")
	}
	if c.Payer, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Payer")
	}
	if c.Tree, err = stream.Read[model.Identity](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read Tree")
	}
	if c.MaxDepth, err = stream.Read[uint32](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read MaxDepth")
	}
	if c.MaxBufferSize, err = stream.Read[uint32](reader); err != nil {
		return nil, ierrors.Wrap(err, "failed to read MaxBufferSize")
	}

	public, err := stream.Read[uint8](reader)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to read Public")
	}
	c.Public = public == 1

	return c, nil
}
