// Package pricemanager implements the collection price manager: a per collection price registry that only its owner
// can change, and the orchestration of the compressed tree that the collection mints into.
//
// All records live at program derived addresses, so that anyone can locate the registry of a collection from the
// collection identity alone (see DeriveCollectionAddresses).
package pricemanager

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
)

const (
	Name = "pricemanager"

	// DefaultPriceCeiling is the exclusive upper bound of prices in the smallest unit of the payment mint.
	DefaultPriceCeiling uint64 = 1_000_000_000_000_000
)

// DefaultProgramID is the identity the program is deployed under if no other is configured.
var DefaultProgramID = model.MustIdentityFromBase58("FV2936jpAPgHkguQeefLpMJm6hJdcmHLy2pDCNTb13Xv")

type Program struct {
	optsProgramID           model.Identity
	optsTreeProgramID       model.Identity
	optsPriceCeiling        uint64
	optsBoundsCheckOnCreate bool
}

var _ engine.Program = &Program{}

func New(opts ...options.Option[Program]) *Program {
	return options.Apply(&Program{
		optsProgramID:     DefaultProgramID,
		optsTreeProgramID: compression.DefaultProgramID,
		optsPriceCeiling:  DefaultPriceCeiling,
	}, opts)
}

func (p *Program) ID() model.Identity {
	return p.optsProgramID
}

func (p *Program) Name() string {
	return Name
}

// TreeProgramID returns the identity of the tree program trees are created with.
func (p *Program) TreeProgramID() model.Identity {
	return p.optsTreeProgramID
}

func (p *Program) PriceCeiling() uint64 {
	return p.optsPriceCeiling
}

func (p *Program) Execute(ctx engine.Context, instructionData []byte) error {
	instruction, err := InstructionFromBytes(instructionData)
	if err != nil {
		return err
	}

	switch instruction := instruction.(type) {
	case *Create:
		return p.create(ctx, instruction)
	case *Read:
		return p.read(ctx, instruction)
	case *Update:
		return p.update(ctx, instruction)
	case *CreateTree:
		return p.allocateTree(ctx, instruction.Collection, instruction.MaxDepth, instruction.MaxBufferSize, false)
	case *RotateTree:
		return p.allocateTree(ctx, instruction.Collection, instruction.MaxDepth, instruction.MaxBufferSize, true)
	case *VerifyTree:
		return p.verifyTree(ctx, instruction)
	default:
		return ierrors.Wrapf(ErrInvalidInstruction, "unsupported instruction %T", instruction)
	}
}
