// Package compression is the tree program that compressed collections mint into. Only the tree bookkeeping is
// implemented: trees are allocated with their header and a config that names the delegate allowed to mint.
package compression

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/layout"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

const Name = "compression"

// DefaultProgramID is the identity the program is deployed under if no other is configured.
var DefaultProgramID = model.MustIdentityFromBase58("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")

type Program struct {
	optsProgramID model.Identity
}

var _ engine.Program = &Program{}

func New(opts ...options.Option[Program]) *Program {
	return options.Apply(&Program{
		optsProgramID: DefaultProgramID,
	}, opts)
}

func (p *Program) ID() model.Identity {
	return p.optsProgramID
}

func (p *Program) Name() string {
	return Name
}

func (p *Program) Execute(ctx engine.Context, instructionData []byte) error {
	reader := stream.NewByteReader(instructionData)

	discriminator, err := layout.ReadAnyDiscriminator(reader)
	if err != nil {
		return ierrors.Join(ErrInvalidInstruction, err)
	}

	switch discriminator {
	case createTreeDiscriminator:
		createTree, err := createTreeFromReader(reader)
		if err != nil {
			return ierrors.Join(ErrInvalidInstruction, err)
		}

		return p.createTree(ctx, createTree)
	default:
		return ierrors.Wrapf(ErrUnknownInstruction, "discriminator %x", discriminator)
	}
}

func (p *Program) createTree(ctx engine.Context, instruction *CreateTree) error {
	for _, signer := range []struct {
		name     string
		identity model.Identity
	}{
		{"tree creator", instruction.TreeCreator},
		{"payer", instruction.Payer},
		{"tree", instruction.Tree},
	} {
		if !ctx.IsSigner(signer.identity) {
			return ierrors.Wrapf(ErrMissingSigner, "%s %s did not sign", signer.name, signer.identity)
		}
	}

	if !ValidDimensions(instruction.MaxDepth, instruction.MaxBufferSize) {
		return ierrors.Wrapf(ErrInvalidTreeDimensions, "depth %d, buffer size %d", instruction.MaxDepth, instruction.MaxBufferSize)
	}

	configAddress, configBump, err := TreeConfigAddress(instruction.Tree, p.ID())
	if err != nil {
		return ierrors.Wrap(err, "failed to derive tree config address")
	}

	if _, err = ctx.SignAs(instruction.Tree[:], []byte{configBump}); err != nil {
		return ierrors.Wrap(err, "failed to sign for tree config")
	}

	header := &TreeHeader{
		MaxDepth:      instruction.MaxDepth,
		MaxBufferSize: instruction.MaxBufferSize,
		Authority:     configAddress,
		CreatedAt:     ctx.Timestamp().Unix(),
	}
	if err = p.initializeAccount(ctx, instruction.Tree, TreeHeaderSize, header.Bytes); err != nil {
		return ierrors.Wrap(err, "failed to create tree")
	}

	config := &TreeConfig{
		TreeCreator:       instruction.TreeCreator,
		TreeDelegate:      instruction.TreeCreator,
		TotalMintCapacity: 1 << instruction.MaxDepth,
		IsPublic:          instruction.Public,
	}
	if err = p.initializeAccount(ctx, configAddress, TreeConfigSize, config.Bytes); err != nil {
		return ierrors.Wrap(err, "failed to create tree config")
	}

	ctx.SetReturnData(configAddress[:])

	ctx.Logger().LogDebug("tree created", "tree", instruction.Tree, "config", configAddress, "depth", instruction.MaxDepth, "bufferSize", instruction.MaxBufferSize)

	return nil
}

func (p *Program) initializeAccount(ctx engine.Context, address model.Identity, space int, data func() ([]byte, error)) error {
	bytes, err := data()
	if err != nil {
		return err
	}

	if err = ctx.CreateAccount(address, space); err != nil {
		return err
	}

	return ctx.WriteAccount(address, bytes)
}
