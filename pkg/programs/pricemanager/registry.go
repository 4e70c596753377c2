package pricemanager

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

func (p *Program) create(ctx engine.Context, instruction *Create) error {
	if !ctx.IsSigner(instruction.Owner) {
		return ierrors.Wrapf(ErrUnauthorized, "owner %s did not sign", instruction.Owner)
	}

	if len(instruction.Prices) != int(instruction.Size) {
		return ierrors.Wrapf(ErrSizeMismatch, "got %d prices for size %d", len(instruction.Prices), instruction.Size)
	}

	if p.optsBoundsCheckOnCreate {
		if err := p.checkPrices(instruction.Prices); err != nil {
			return err
		}
	}

	address, bump, err := RegistryAddress(instruction.Collection, p.ID())
	if err != nil {
		return ierrors.Wrap(err, "failed to derive registry address")
	}

	if _, err = ctx.SignAs(withBump(registrySeeds(instruction.Collection), bump)...); err != nil {
		return ierrors.Wrap(err, "failed to sign for registry")
	}

	if err = ctx.CreateAccount(address, RegistrySize(instruction.Size)); err != nil {
		return ierrors.Wrapf(err, "failed to allocate registry for collection %s", instruction.Collection)
	}

	registry := &Registry{
		Owner:       instruction.Owner,
		Collection:  instruction.Collection,
		Size:        instruction.Size,
		PaymentMint: instruction.PaymentMint,
		Prices:      lo.CopySlice(instruction.Prices),
		Bump:        bump,
	}

	if err = storeRegistry(ctx, address, registry); err != nil {
		return err
	}

	ctx.Logger().LogDebug("registry created", "collection", registry.Collection, "owner", registry.Owner, "size", registry.Size)

	return emit(ctx, EventRegistryCreated, registry)
}

func (p *Program) read(ctx engine.Context, instruction *Read) error {
	registry, _, _, err := p.loadRegistry(ctx, instruction.Collection)
	if err != nil {
		return err
	}

	result, err := (&ReadResult{
		Size:        registry.Size,
		PaymentMint: registry.PaymentMint,
		Prices:      registry.Prices,
	}).Bytes()
	if err != nil {
		return ierrors.Wrap(err, "failed to encode prices")
	}

	ctx.SetReturnData(result)

	return nil
}

func (p *Program) update(ctx engine.Context, instruction *Update) error {
	registry, address, err := p.loadMutableRegistry(ctx, instruction.Collection)
	if err != nil {
		return err
	}

	if len(instruction.Prices) != int(registry.Size) {
		return ierrors.Wrapf(ErrSizeMismatch, "got %d prices for size %d", len(instruction.Prices), registry.Size)
	}

	if err = p.checkPrices(instruction.Prices); err != nil {
		return err
	}

	registry.Prices = lo.CopySlice(instruction.Prices)

	if err = storeRegistry(ctx, address, registry); err != nil {
		return err
	}

	ctx.Logger().LogDebug("prices updated", "collection", registry.Collection)

	return emit(ctx, EventPricesUpdated, registry)
}

func storeRegistry(ctx engine.Context, address model.Identity, registry *Registry) error {
	data, err := registry.Bytes()
	if err != nil {
		return ierrors.Wrap(err, "failed to encode registry")
	}

	if err = ctx.WriteAccount(address, data); err != nil {
		return ierrors.Wrapf(err, "failed to write registry %s", address)
	}

	return nil
}
