package prices

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/iotaledger/collection-pricing/components/restapi"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/requesthandler"
	restapipkg "github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/inx-app/pkg/httpserver"
)

const (
	// RouteInfo is the route for getting the node info.
	// GET returns the node info.
	RouteInfo = "/info"

	// RouteCollection is the route for getting the price registry of a collection.
	// GET returns the registry.
	RouteCollection = "/collections/:" + restapipkg.ParameterCollection

	// RouteCollectionPrices is the route for reading the prices of a collection.
	// GET returns size, payment mint and prices.
	RouteCollectionPrices = RouteCollection + "/prices"

	// RouteCollectionAddresses is the route for deriving the addresses of a collection.
	// GET returns the registry, mint authority and tree addresses.
	RouteCollectionAddresses = RouteCollection + "/addresses"

	// RouteCollectionEvents is the route for getting the events of a collection.
	// GET returns a page of events, see the pageSize and cursor query parameters.
	RouteCollectionEvents = RouteCollection + "/events"

	// RouteTransactions is the route for submitting transactions.
	// POST executes a signed transaction and returns its receipt.
	RouteTransactions = "/transactions"

	// RouteTransaction is the route for getting the receipt of a transaction.
	// GET returns the receipt.
	RouteTransaction = "/transactions/:" + restapipkg.ParameterTransactionID

	// RouteTransactionEvents is the route for getting the events of a transaction.
	// GET returns the committed events.
	RouteTransactionEvents = RouteTransaction + "/events"
)

func init() {
	Component = &app.Component{
		Name:      "PricesAPIV1",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Configure: configure,
		IsEnabled: func(c *dig.Container) bool {
			return restapi.ParamsRestAPI.Enabled
		},
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	AppInfo          *app.Info
	NodeID           model.Identity `name:"nodeID"`
	MaxPageSize      int            `name:"restAPIMaxPageSize"`
	RestRouteManager *restapipkg.RestRouteManager
	RequestHandler   *requesthandler.RequestHandler
}

func configure() error {
	// check if RestAPI plugin is disabled
	if !Component.App().IsComponentEnabled(restapi.Component.Identifier()) {
		Component.LogPanicf("RestAPI plugin needs to be enabled to use the %s plugin", Component.Name)
	}

	routeGroup := deps.RestRouteManager.AddRoute("prices/v1")

	routeGroup.GET(RouteInfo, func(c echo.Context) error {
		resp := deps.RequestHandler.Info(deps.AppInfo.Name, deps.AppInfo.Version, deps.NodeID.String())

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteCollection, func(c echo.Context) error {
		collection, err := restapipkg.ParseIdentityParam(c, restapipkg.ParameterCollection)
		if err != nil {
			return err
		}

		resp, err := deps.RequestHandler.Collection(collection)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteCollectionPrices, func(c echo.Context) error {
		collection, err := restapipkg.ParseIdentityParam(c, restapipkg.ParameterCollection)
		if err != nil {
			return err
		}

		resp, err := deps.RequestHandler.Prices(c.Request().Context(), collection)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteCollectionAddresses, func(c echo.Context) error {
		collection, err := restapipkg.ParseIdentityParam(c, restapipkg.ParameterCollection)
		if err != nil {
			return err
		}

		resp, err := deps.RequestHandler.CollectionAddresses(collection)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteCollectionEvents, func(c echo.Context) error {
		resp, err := eventsByCollection(c)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RouteTransactions, func(c echo.Context) error {
		request := &restapipkg.SubmitTransactionRequest{}
		if err := c.Bind(request); err != nil {
			return ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid request, error: %s", err)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), restapi.ParamsRestAPI.Limits.ExecutionTimeout)
		defer cancel()

		resp, err := deps.RequestHandler.SubmitTransaction(ctx, request)
		if err != nil {
			return err
		}

		c.Response().Header().Set(echo.HeaderLocation, resp.TransactionID)

		if !resp.Committed {
			return httpserver.JSONResponse(c, http.StatusUnprocessableEntity, resp)
		}

		return httpserver.JSONResponse(c, http.StatusCreated, resp)
	})

	routeGroup.GET(RouteTransaction, func(c echo.Context) error {
		transactionID, err := restapipkg.ParseTransactionIDParam(c, restapipkg.ParameterTransactionID)
		if err != nil {
			return err
		}

		resp, err := deps.RequestHandler.Receipt(transactionID)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteTransactionEvents, func(c echo.Context) error {
		transactionID, err := restapipkg.ParseTransactionIDParam(c, restapipkg.ParameterTransactionID)
		if err != nil {
			return err
		}

		resp, err := deps.RequestHandler.EventsByTransactionID(transactionID)
		if err != nil {
			return err
		}

		return httpserver.JSONResponse(c, http.StatusOK, resp)
	})

	return nil
}

func eventsByCollection(c echo.Context) (*restapipkg.EventsResponse, error) {
	collection, err := restapipkg.ParseIdentityParam(c, restapipkg.ParameterCollection)
	if err != nil {
		return nil, err
	}

	pageSize, err := restapipkg.ParsePageSizeQueryParam(c, deps.MaxPageSize)
	if err != nil {
		return nil, err
	}

	cursor, err := restapipkg.ParseCursorQueryParam(c)
	if err != nil {
		return nil, err
	}

	return deps.RequestHandler.EventsByCollection(collection, cursor, pageSize)
}
