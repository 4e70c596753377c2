package requesthandler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/requesthandler/cache"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
)

// registry loads the price registry of the collection straight from the ledger.
func (r *RequestHandler) registry(collection model.Identity) (*pricemanager.Registry, model.Identity, error) {
	address, _, err := pricemanager.RegistryAddress(collection, r.priceManager.ID())
	if err != nil {
		return nil, address, ierrors.Wrapf(echo.ErrInternalServerError, "failed to derive registry address of collection %s: %s", collection, err)
	}

	account, err := r.engine.Storage().Accounts().Load(address)
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, address, ierrors.WithMessagef(echo.ErrNotFound, "price registry of collection %s not found", collection)
		}

		return nil, address, ierrors.Wrapf(echo.ErrInternalServerError, "failed to load price registry %s: %s", address, err)
	}

	if account.Owner != r.priceManager.ID() {
		return nil, address, ierrors.WithMessagef(echo.ErrNotFound, "price registry of collection %s not found", collection)
	}

	registry, _, err := pricemanager.RegistryFromBytes(account.Data)
	if err != nil {
		return nil, address, ierrors.Wrapf(echo.ErrInternalServerError, "failed to decode price registry %s: %s", address, err)
	}

	return registry, address, nil
}

// Collection returns the price registry of the collection.
func (r *RequestHandler) Collection(collection model.Identity) (*restapi.CollectionResponse, error) {
	registry, address, err := r.registry(collection)
	if err != nil {
		return nil, err
	}

	resp := &restapi.CollectionResponse{
		Collection:  registry.Collection.String(),
		Registry:    address.String(),
		Owner:       registry.Owner.String(),
		PaymentMint: registry.PaymentMint.String(),
		Size:        registry.Size,
		Prices:      registry.Prices,
		Bump:        registry.Bump,
	}

	if !registry.TreeAddress.Empty() {
		resp.Tree = registry.TreeAddress.String()
	}

	return resp, nil
}

// Prices executes a read of the collection's prices without committing anything.
func (r *RequestHandler) Prices(ctx context.Context, collection model.Identity) (*restapi.PricesResponse, error) {
	instruction, err := pricemanager.NewInstruction(r.priceManager.ID(), &pricemanager.Read{Collection: collection})
	if err != nil {
		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to encode read instruction: %s", err)
	}

	receipt, err := r.engine.Simulate(ctx, model.NewTransaction(0, instruction))
	if receipt == nil {
		return nil, ierrors.Wrapf(echo.ErrServiceUnavailable, "failed to read prices of collection %s: %s", collection, err)
	}

	if receipt.Err != nil {
		if ierrors.Is(receipt.Err, pricemanager.ErrNotFound) {
			return nil, ierrors.WithMessagef(echo.ErrNotFound, "price registry of collection %s not found", collection)
		}

		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to read prices of collection %s: %s", collection, receipt.Err)
	}

	result, err := pricemanager.ReadResultFromBytes(receipt.ReturnData)
	if err != nil {
		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to decode prices of collection %s: %s", collection, err)
	}

	return &restapi.PricesResponse{
		Size:        result.Size,
		PaymentMint: result.PaymentMint.String(),
		Prices:      result.Prices,
	}, nil
}

// CollectionAddresses derives the addresses of the collection. Collections without a registry get the addresses a
// new registry and its first tree would be created at.
func (r *RequestHandler) CollectionAddresses(collection model.Identity) (*restapi.CollectionAddressesResponse, error) {
	currentTree := model.EmptyIdentity

	registry, _, err := r.registry(collection)
	switch {
	case err == nil:
		currentTree = registry.TreeAddress
	case !ierrors.Is(err, echo.ErrNotFound):
		return nil, err
	}

	key := append(lo.PanicOnErr(collection.Bytes()), lo.PanicOnErr(currentTree.Bytes())...)

	return cache.GetOrCreate(r.addressCache, key, func() (*restapi.CollectionAddressesResponse, error) {
		addresses, err := pricemanager.DeriveCollectionAddresses(collection, currentTree, r.priceManager.ID(), r.priceManager.TreeProgramID())
		if err != nil {
			return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to derive addresses of collection %s: %s", collection, err)
		}

		return restapi.NewCollectionAddressesResponse(addresses), nil
	})
}
