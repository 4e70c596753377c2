package pricemanager

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/ierrors"
)

// loadRegistry loads the registry of the collection from its derived address and returns it together with the
// address and the bump of the derivation.
func (p *Program) loadRegistry(ctx engine.Context, collection model.Identity) (registry *Registry, address model.Identity, bump byte, err error) {
	if address, bump, err = RegistryAddress(collection, p.ID()); err != nil {
		return nil, address, 0, ierrors.Wrap(err, "failed to derive registry address")
	}

	account, err := ctx.Account(address)
	if err != nil {
		if ierrors.Is(err, engine.ErrAccountNotFound) {
			return nil, address, 0, ierrors.Wrapf(ErrNotFound, "collection %s", collection)
		}

		return nil, address, 0, err
	}

	if account.Owner != p.ID() {
		return nil, address, 0, ierrors.Wrapf(ErrInvalidAccountData, "registry %s is owned by %s", address, account.Owner)
	}

	if registry, _, err = RegistryFromBytes(account.Data); err != nil {
		return nil, address, 0, err
	}

	if registry.Collection != collection {
		return nil, address, 0, ierrors.Wrapf(ErrInvalidAccountData, "registry %s belongs to collection %s", address, registry.Collection)
	}

	return registry, address, bump, nil
}

// loadMutableRegistry loads the registry of the collection and checks that the invocation may mutate it. No state
// is changed before these checks pass.
func (p *Program) loadMutableRegistry(ctx engine.Context, collection model.Identity) (*Registry, model.Identity, error) {
	registry, address, bump, err := p.loadRegistry(ctx, collection)
	if err != nil {
		return nil, address, err
	}

	if err = authorize(ctx, registry); err != nil {
		return nil, address, err
	}

	if registry.Bump != bump {
		return nil, address, ierrors.Wrapf(ErrInvalidBump, "stored %d, derived %d", registry.Bump, bump)
	}

	return registry, address, nil
}

// authorize checks that the owner of the registry signed the invocation.
func authorize(ctx engine.Context, registry *Registry) error {
	if !ctx.IsSigner(registry.Owner) {
		return ierrors.Wrapf(ErrUnauthorized, "owner %s did not sign", registry.Owner)
	}

	return nil
}

func (p *Program) checkPrices(prices []uint64) error {
	for i, price := range prices {
		if price == 0 {
			return ierrors.Wrapf(ErrInvalidPrice, "price %d is zero", i)
		}

		if price >= p.optsPriceCeiling {
			return ierrors.Wrapf(ErrPriceTooHigh, "price %d is %d, ceiling is %d", i, price, p.optsPriceCeiling)
		}
	}

	return nil
}
