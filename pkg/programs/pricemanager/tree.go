package pricemanager

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/hive.go/ierrors"
)

// allocateTree creates a new tree for the collection through the tree program and makes it the registry's current
// tree. The mint authority of the collection signs as tree creator, so that only this program can mint into it.
func (p *Program) allocateTree(ctx engine.Context, collection model.Identity, maxDepth uint32, maxBufferSize uint32, rotate bool) error {
	registry, address, err := p.loadMutableRegistry(ctx, collection)
	if err != nil {
		return err
	}

	if !rotate && !registry.TreeAddress.Empty() {
		return ierrors.Wrapf(ErrTreeAlreadyExists, "tree %s", registry.TreeAddress)
	}

	previousTree := registry.TreeAddress

	treeAddress, treeBump, err := TreeAddress(collection, previousTree, p.ID())
	if err != nil {
		return ierrors.Wrap(err, "failed to derive tree address")
	}

	mintAuthority, mintAuthorityBump, err := MintAuthorityAddress(collection, p.ID())
	if err != nil {
		return ierrors.Wrap(err, "failed to derive mint authority")
	}

	mintAuthorityProof, err := ctx.SignAs(withBump(mintAuthoritySeeds(collection), mintAuthorityBump)...)
	if err != nil {
		return ierrors.Wrap(err, "failed to sign as mint authority")
	}

	treeProof, err := ctx.SignAs(withBump(treeSeeds(collection, previousTree), treeBump)...)
	if err != nil {
		return ierrors.Wrap(err, "failed to sign as tree")
	}

	createTree, err := (&compression.CreateTree{
		TreeCreator:   mintAuthority,
		Payer:         registry.Owner,
		Tree:          treeAddress,
		MaxDepth:      maxDepth,
		MaxBufferSize: maxBufferSize,
	}).Bytes()
	if err != nil {
		return ierrors.Wrap(err, "failed to encode tree instruction")
	}

	if _, err = ctx.Invoke(p.optsTreeProgramID, createTree, mintAuthorityProof, treeProof); err != nil {
		return ierrors.Join(ErrExternalTree, err)
	}

	if err = p.initializeTreeIndex(ctx, treeAddress); err != nil {
		return err
	}

	if err = p.verifyTreeAuthority(ctx, collection, treeAddress); err != nil {
		return err
	}

	registry.TreeAddress = treeAddress
	if err = storeRegistry(ctx, address, registry); err != nil {
		return err
	}

	ctx.SetReturnData(treeAddress[:])

	if rotate {
		ctx.Logger().LogDebug("tree rotated", "collection", collection, "previous", previousTree, "tree", treeAddress)

		return emit(ctx, EventTreeRotated, registry)
	}

	ctx.Logger().LogDebug("tree created", "collection", collection, "tree", treeAddress)

	return emit(ctx, EventTreeCreated, registry)
}

// initializeTreeIndex creates the index counter of the tree starting at zero.
func (p *Program) initializeTreeIndex(ctx engine.Context, treeAddress model.Identity) error {
	address, bump, err := TreeIndexAddress(treeAddress, p.ID())
	if err != nil {
		return ierrors.Wrap(err, "failed to derive tree index address")
	}

	if _, err = ctx.SignAs(withBump(treeIndexSeeds(treeAddress), bump)...); err != nil {
		return ierrors.Wrap(err, "failed to sign as tree index")
	}

	counter, err := (&TreeIndexCounter{}).Bytes()
	if err != nil {
		return ierrors.Wrap(err, "failed to encode tree index")
	}

	if err = ctx.CreateAccount(address, TreeIndexCounterSize); err != nil {
		return ierrors.Wrapf(err, "failed to allocate tree index of %s", treeAddress)
	}

	return ctx.WriteAccount(address, counter)
}

func (p *Program) verifyTree(ctx engine.Context, instruction *VerifyTree) error {
	if err := p.verifyTreeAuthority(ctx, instruction.Collection, instruction.TreeAddress); err != nil {
		return err
	}

	ctx.SetReturnData([]byte{1})

	return nil
}

// verifyTreeAuthority loads the config of the tree and checks that its delegate is the collection's mint authority.
func (p *Program) verifyTreeAuthority(ctx engine.Context, collection model.Identity, treeAddress model.Identity) error {
	configAddress, _, err := compression.TreeConfigAddress(treeAddress, p.optsTreeProgramID)
	if err != nil {
		return ierrors.Join(ErrInvalidTreeConfig, err)
	}

	account, err := ctx.Account(configAddress)
	if err != nil {
		return ierrors.Join(ErrInvalidTreeConfig, ierrors.Wrapf(err, "failed to load config of tree %s", treeAddress))
	}

	if account.Owner != p.optsTreeProgramID {
		return ierrors.Wrapf(ErrInvalidTreeConfig, "config %s is owned by %s", configAddress, account.Owner)
	}

	_, err = VerifyTreeAuthority(account.Data, collection, p.ID())

	return err
}

// VerifyTreeAuthority checks that the tree config names the mint authority of the collection as delegate. It fails
// with ErrInvalidTreeConfig if the config can not be parsed and with ErrInvalidMintAuthority if the delegate differs.
func VerifyTreeAuthority(treeConfig []byte, collection model.Identity, programID model.Identity) (bool, error) {
	config, _, err := compression.TreeConfigFromBytes(treeConfig)
	if err != nil {
		return false, ierrors.Join(ErrInvalidTreeConfig, err)
	}

	mintAuthority, _, err := MintAuthorityAddress(collection, programID)
	if err != nil {
		return false, ierrors.Wrap(err, "failed to derive mint authority")
	}

	if config.TreeDelegate != mintAuthority {
		return false, ierrors.Wrapf(ErrInvalidMintAuthority, "delegate %s, expected %s", config.TreeDelegate, mintAuthority)
	}

	return true, nil
}
